// Package reader is a read-only view over a registry hive image. It walks
// keys and values through the NK/VK/list records decoded by internal/format
// and never writes to the underlying buffer.
package reader

import (
	"errors"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/format"
	"github.com/coquinn7/UserAssist/internal/mmfile"
	"github.com/coquinn7/UserAssist/pkg/types"
)

const defaultMaxCellSize = 64 << 20

// Reader navigates a hive image. Handles returned by one Reader are only
// meaningful to that Reader.
type Reader struct {
	buf    []byte
	unmap  func() error
	opts   types.OpenOptions
	head   format.Header
	bins   []hbinSpan
	closed bool
}

// hbinSpan records where an HBIN lives in the image (absolute offsets).
type hbinSpan struct {
	start int
	end   int
}

// Open maps the hive at path and validates its base block and HBIN chain.
// A file without the regf signature fails with types.ErrNotHive.
func Open(path string, opts types.OpenOptions) (*Reader, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open hive: %w", err)
	}
	r, err := newReader(data, unmap, opts)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	return r, nil
}

// OpenBytes creates a reader backed by the provided buffer.
func OpenBytes(b []byte, opts types.OpenOptions) (*Reader, error) {
	return newReader(b, nil, opts)
}

func newReader(b []byte, unmap func() error, opts types.OpenOptions) (*Reader, error) {
	head, err := format.ParseHeader(b)
	if err != nil {
		if errors.Is(err, format.ErrSignatureMismatch) {
			return nil, types.ErrNotHive
		}
		return nil, wrapFormatErr(err)
	}
	if opts.MaxCellSize <= 0 {
		opts.MaxCellSize = defaultMaxCellSize
	}
	r := &Reader{buf: b, unmap: unmap, opts: opts, head: head}
	if err := r.indexHBINs(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the mapping. Byte slices previously returned by the reader
// stay valid because ValueBytes always copies.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}

func (r *Reader) ensureOpen() error {
	if r.closed {
		return types.ErrClosed
	}
	return nil
}

// Info returns header metadata, including the embedded file name and the hive
// kind derived from it.
func (r *Reader) Info() types.HiveInfo {
	name := decodeUTF16Z(r.head.FileNameRaw)
	return types.HiveInfo{
		PrimarySequence:   r.head.PrimarySequence,
		SecondarySequence: r.head.SecondarySequence,
		LastWrite:         format.FiletimeToTime(r.head.LastWriteRaw),
		MajorVersion:      r.head.MajorVersion,
		MinorVersion:      r.head.MinorVersion,
		Type:              r.head.Type,
		RootCellOffset:    r.head.RootCellOffset,
		HiveBinsDataSize:  r.head.HiveBinsDataSize,
		ClusteringFactor:  r.head.ClusteringFactor,
		FileName:          name,
		Kind:              types.HiveTypeOf(name),
	}
}

// Type reports which hive this is, e.g. types.HiveTypeNTUser.
func (r *Reader) Type() types.HiveType {
	return types.HiveTypeOf(decodeUTF16Z(r.head.FileNameRaw))
}

// Root returns the root key handle.
func (r *Reader) Root() (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	return types.NodeID(r.head.RootCellOffset), nil
}

// indexHBINs walks the HBIN chain once so cell lookups can bound every cell
// by its owning bin.
func (r *Reader) indexHBINs() error {
	off := format.HeaderSize
	end := format.HeaderSize + int(r.head.HiveBinsDataSize)
	if end > len(r.buf) {
		end = len(r.buf)
	}
	for off < end {
		hb, next, err := format.NextHBIN(r.buf, off)
		if err != nil {
			return wrapFormatErr(err)
		}
		if next <= off {
			return &types.Error{Kind: types.ErrKindCorrupt, Msg: "hbin iteration failed to advance", Err: types.ErrCorrupt}
		}
		r.bins = append(r.bins, hbinSpan{start: off, end: off + int(hb.Size)})
		off = next
	}
	if len(r.bins) == 0 {
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: "hive has no hbins", Err: types.ErrCorrupt}
	}
	return nil
}

func (r *Reader) cell(offset uint32) (format.Cell, error) {
	if offset == format.InvalidOffset {
		return format.Cell{}, &types.Error{Kind: types.ErrKindCorrupt, Msg: "invalid cell offset", Err: types.ErrCorrupt}
	}
	abs := format.HeaderSize + int(offset)
	for _, bin := range r.bins {
		if abs < bin.start || abs >= bin.end {
			continue
		}
		if abs < bin.start+format.HBINHeaderSize {
			break
		}
		c, err := format.ParseCell(r.buf[abs:bin.end])
		if err != nil {
			return format.Cell{}, wrapFormatErr(fmt.Errorf("cell %#x: %w", offset, err))
		}
		if c.Size > r.opts.MaxCellSize {
			return format.Cell{}, &types.Error{Kind: types.ErrKindCorrupt, Msg: "cell exceeds MaxCellSize", Err: types.ErrCorrupt}
		}
		return c, nil
	}
	return format.Cell{}, &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("cell offset %#x out of range", offset),
		Err:  types.ErrCorrupt,
	}
}

func (r *Reader) nk(id types.NodeID) (format.NKRecord, error) {
	c, err := r.cell(uint32(id))
	if err != nil {
		return format.NKRecord{}, err
	}
	nk, err := format.DecodeNK(c.Data)
	if err != nil {
		return format.NKRecord{}, wrapFormatErr(err)
	}
	return nk, nil
}

func (r *Reader) vk(id types.ValueID) (format.VKRecord, error) {
	c, err := r.cell(uint32(id))
	if err != nil {
		return format.VKRecord{}, err
	}
	vk, err := format.DecodeVK(c.Data)
	if err != nil {
		return format.VKRecord{}, wrapFormatErr(err)
	}
	return vk, nil
}

func wrapFormatErr(err error) error {
	if err == nil {
		return nil
	}
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	// ErrKindFormat is reserved for the base block; a bad tag deeper in the
	// tree is corruption, not "not a hive".
	kind := types.ErrKindCorrupt
	if errors.Is(err, format.ErrUnsupported) {
		kind = types.ErrKindUnsupported
	}
	return &types.Error{Kind: kind, Msg: "hive structure", Err: err}
}
