package format

import (
	"bytes"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/buf"
)

// ListKind identifies the subkey list variant stored in a cell.
type ListKind int

const (
	ListUnknown ListKind = iota
	ListLI
	ListLF
	ListLH
	ListRI
)

// SubkeyListKind classifies a subkey list payload by its tag.
func SubkeyListKind(b []byte) ListKind {
	if len(b) < SignatureSize {
		return ListUnknown
	}
	switch tag := b[:SignatureSize]; {
	case bytes.Equal(tag, LISignature):
		return ListLI
	case bytes.Equal(tag, LFSignature):
		return ListLF
	case bytes.Equal(tag, LHSignature):
		return ListLH
	case bytes.Equal(tag, RISignature):
		return ListRI
	}
	return ListUnknown
}

// DecodeSubkeyList extracts cell offsets from an LI, LF, LH or RI list. For
// LI/LF/LH the offsets point at NK cells; for RI they point at further
// lists which the caller resolves. The LF/LH name hints are skipped.
func DecodeSubkeyList(b []byte) (ListKind, []uint32, error) {
	if len(b) < ListHeaderSize {
		return ListUnknown, nil, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	kind := SubkeyListKind(b)
	stride := OffsetFieldSize
	switch kind {
	case ListLF, ListLH:
		stride = LFEntrySize
	case ListLI, ListRI:
	default:
		return kind, nil, fmt.Errorf("subkey list %q: %w", b[:SignatureSize], ErrUnsupported)
	}
	count := int(buf.U16LE(b[SignatureSize:]))
	entries, ok := buf.Slice(b, ListHeaderSize, count*stride)
	if !ok {
		return kind, nil, fmt.Errorf("subkey list: %d entries: %w", count, ErrTruncated)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(entries[i*stride:])
	}
	return kind, out, nil
}

// DecodeValueList decodes a value list containing offsets to VK records.
func DecodeValueList(b []byte, count uint32) ([]uint32, error) {
	entries, ok := buf.Slice(b, 0, int(count)*OffsetFieldSize)
	if !ok {
		return nil, fmt.Errorf("value list: %d entries: %w", count, ErrTruncated)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(entries[i*OffsetFieldSize:])
	}
	return out, nil
}
