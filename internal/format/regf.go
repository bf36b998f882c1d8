package format

import (
	"bytes"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/buf"
)

// Header captures the REGF base block fields the reader needs.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   4    'r' 'e' 'g' 'f'
//	 0x004   4    Primary sequence number
//	 0x008   4    Secondary sequence number
//	 0x00C   8    Last write timestamp (FILETIME)
//	 0x014   4    Major version
//	 0x018   4    Minor version
//	 0x01C   4    Type (0 = primary, 1 = alternate)
//	 0x020   4    Format (1 = direct memory load)
//	 0x024   4    Offset (relative to first HBIN) of the root cell (NK)
//	 0x028   4    Total size of HBIN data
//	 0x02C   4    Clustering factor
//	 0x030  64    File name the hive was last saved as (UTF-16LE)
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32
	FileNameRaw       []byte
}

// ParseHeader validates the signature and extracts the base block fields.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < len(REGFSignature) || !bytes.Equal(b[:len(REGFSignature)], REGFSignature) {
		return Header{}, fmt.Errorf("regf header: %w", ErrSignatureMismatch)
	}
	if len(b) < REGFMinSize {
		return Header{}, fmt.Errorf("regf header: %w (have %d, need %d)", ErrTruncated, len(b), REGFMinSize)
	}
	return Header{
		PrimarySequence:   buf.U32LE(b[REGFPrimarySeqOffset:]),
		SecondarySequence: buf.U32LE(b[REGFSecondarySeqOffset:]),
		LastWriteRaw:      buf.U64LE(b[REGFTimeStampOffset:]),
		MajorVersion:      buf.U32LE(b[REGFMajorVersionOffset:]),
		MinorVersion:      buf.U32LE(b[REGFMinorVersionOffset:]),
		Type:              buf.U32LE(b[REGFTypeOffset:]),
		Format:            buf.U32LE(b[REGFFormatOffset:]),
		RootCellOffset:    buf.U32LE(b[REGFRootCellOffset:]),
		HiveBinsDataSize:  buf.U32LE(b[REGFDataSizeOffset:]),
		ClusteringFactor:  buf.U32LE(b[REGFClusterOffset:]),
		FileNameRaw:       b[REGFFileNameOffset : REGFFileNameOffset+REGFFileNameSize],
	}, nil
}

// HeaderChecksum computes the XOR-of-dwords checksum over the first 508 bytes.
// Windows substitutes 1 for 0 and 0xFFFFFFFE for 0xFFFFFFFF.
func HeaderChecksum(b []byte) uint32 {
	var sum uint32
	for off := 0; off+4 <= REGFCheckSumOffset && off+4 <= len(b); off += 4 {
		sum ^= buf.U32LE(b[off:])
	}
	switch sum {
	case 0:
		return 1
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	}
	return sum
}
