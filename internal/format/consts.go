// Package format houses the low-level decoders for the Windows Registry hive
// file format. Only the read path is implemented: enough structure to walk
// keys and pull raw value bytes out of a hive image.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	// NKSignature identifies an NK (Node Key) cell payload.
	NKSignature = []byte{'n', 'k'}

	// VKSignature identifies a VK (Value Key) cell payload.
	VKSignature = []byte{'v', 'k'}

	// LFSignature, LHSignature, and LISignature identify subkey list variants.
	// LF/LH include hashed names, while LI is a linear list without hashes.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature identifies an indirect subkey list pointing at LF/LH/LI lists.
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a big data record for values above DBChunkSize.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block. The first HBIN starts here
	// and every cell offset stored in the hive is relative to it.
	HeaderSize = 0x1000

	// HBINHeaderSize is the size of the HBIN header in bytes.
	HBINHeaderSize = 0x20

	// HBINAlignment is the required alignment of hive bins.
	HBINAlignment = 0x1000

	// CellHeaderSize is the signed size prefix of every cell.
	CellHeaderSize = 4

	// CellAlignment is the alignment of cells within an HBIN.
	CellAlignment = 8

	// SignatureSize is the size of NK/VK/list record tags.
	SignatureSize = 2

	// ListHeaderSize is signature + 16-bit count.
	ListHeaderSize = 4

	// OffsetFieldSize is the size of an HCELL_INDEX.
	OffsetFieldSize = 4

	// LFEntrySize is offset + 4 byte name hint/hash.
	LFEntrySize = 8

	// InvalidOffset marks an unused HCELL_INDEX field.
	InvalidOffset = 0xFFFFFFFF
)

// REGF base block field offsets.
const (
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C // FILETIME
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
	REGFClusterOffset      = 0x02C
	REGFFileNameOffset     = 0x030 // UTF-16LE, NUL padded
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC // XOR of the first 508 bytes

	// REGFMinSize is the smallest prefix that holds every field we decode.
	REGFMinSize = REGFFileNameOffset + REGFFileNameSize
)

// HBIN header field offsets.
const (
	HBINFileOffsetField = 0x04
	HBINSizeOffset      = 0x08
)

// NK field offsets (payload start == "nk").
const (
	NKFlagsOffset          = 0x02
	NKLastWriteOffset      = 0x04
	NKParentOffset         = 0x10
	NKSubkeyCountOffset    = 0x14
	NKVolSubkeyCountOffset = 0x18
	NKSubkeyListOffset     = 0x1C
	NKVolSubkeyListOffset  = 0x20
	NKValueCountOffset     = 0x24
	NKValueListOffset      = 0x28
	NKSecurityOffset       = 0x2C
	NKClassNameOffset      = 0x30
	NKNameLenOffset        = 0x48
	NKClassLenOffset       = 0x4A
	NKNameOffset           = 0x4C

	NKFixedHeaderSize = NKNameOffset

	// NKFlagHiveEntry marks the root key of a hive.
	NKFlagHiveEntry = 0x0004
	// NKFlagCompressedName marks a Windows-1252 name (KEY_COMP_NAME).
	NKFlagCompressedName = 0x0020
)

// VK field offsets (payload start == "vk").
const (
	VKNameLenOffset = 0x02
	VKDataLenOffset = 0x04
	VKDataOffOffset = 0x08
	VKTypeOffset    = 0x0C
	VKFlagsOffset   = 0x10
	VKNameOffset    = 0x14

	VKFixedHeaderSize = VKNameOffset

	// VKFlagASCIIName marks a Windows-1252 value name.
	VKFlagASCIIName = 0x0001
	// VKDataInlineBit is set in DataLength when the data lives in DataOffset.
	VKDataInlineBit = 0x80000000
	// VKDataLengthMask extracts the real length from DataLength.
	VKDataLengthMask = 0x7FFFFFFF
)

// Big data (db) record layout.
const (
	DBCountOffset = 0x02
	DBListOffset  = 0x04
	DBMinSize     = 0x0C

	// DBChunkSize is the payload size of every block except the last.
	DBChunkSize = 16344
)

// Sanity limits applied while decoding untrusted images.
const (
	MaxSubkeyCount  = 1 << 20
	MaxValueCount   = 1 << 20
	MaxNameLen      = 0xFFFF
	MaxValueDataLen = 1 << 30
)
