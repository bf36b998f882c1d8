package types

import "time"

// NodeID and ValueID are copyable handles referring to NK/VK cells. They hold
// the cell offset relative to the first HBIN.
type (
	NodeID  uint32
	ValueID uint32
)

// HiveInfo exposes registry hive header (REGF) metadata.
type HiveInfo struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWrite         time.Time
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32 // 0 = primary, 1 = alternate
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32
	FileName          string // embedded file name, e.g. `\??\C:\Users\x\ntuser.dat`
	Kind              HiveType
}

// OpenOptions controls safety tradeoffs for constructing a reader.
type OpenOptions struct {
	// Tolerant returns truncated value data instead of failing when a data
	// cell is shorter than the length its VK record declares.
	Tolerant bool

	// MaxCellSize guards against absurd cell sizes. Zero selects 64 MiB.
	MaxCellSize int
}
