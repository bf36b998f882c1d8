package format

import (
	"bytes"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/buf"
)

// DBRecord is a big data header. Values larger than DBChunkSize are split
// into blocks; BlocklistOffset points at a cell holding NumBlocks offsets.
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// IsDBRecord reports whether b starts with the "db" tag.
func IsDBRecord(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], DBSignature)
}

// DecodeDB decodes a big data record from a cell payload.
func DecodeDB(b []byte) (DBRecord, error) {
	if len(b) < DBMinSize {
		return DBRecord{}, fmt.Errorf("db: %w (have %d, need %d)", ErrTruncated, len(b), DBMinSize)
	}
	if !IsDBRecord(b) {
		return DBRecord{}, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}
	return DBRecord{
		NumBlocks:       buf.U16LE(b[DBCountOffset:]),
		BlocklistOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}
