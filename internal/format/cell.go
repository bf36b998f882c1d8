package format

import (
	"errors"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/buf"
)

// Cell is a single allocation within an HBIN.
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. Records start with a 2-byte tag.
type Cell struct {
	Size int    // total size including header
	Free bool   // true when the size is positive
	Data []byte // payload, aliases the hive buffer
}

// ParseCell decodes the cell that starts at b[0]. b must end at the owning
// HBIN boundary so a declared size cannot run into the next bin.
func ParseCell(b []byte) (Cell, error) {
	if len(b) < CellHeaderSize {
		return Cell{}, fmt.Errorf("cell: %w", ErrTruncated)
	}
	raw := buf.I32LE(b)
	if raw == 0 {
		return Cell{}, errors.New("cell: zero length")
	}
	size := int(raw)
	if raw < 0 {
		size = -size
	}
	if size < CellHeaderSize || size > len(b) {
		return Cell{}, fmt.Errorf("cell: size %d: %w", size, ErrTruncated)
	}
	return Cell{
		Size: size,
		Free: raw > 0,
		Data: b[CellHeaderSize:size],
	}, nil
}
