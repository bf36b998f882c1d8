package reader

import (
	"fmt"

	"github.com/coquinn7/UserAssist/internal/buf"
	"github.com/coquinn7/UserAssist/internal/format"
	"github.com/coquinn7/UserAssist/pkg/types"
)

// Values lists the value handles of a key in value-list order.
func (r *Reader) Values(id types.NodeID) ([]types.ValueID, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if nk.ValueCount == 0 || nk.ValueListOffset == format.InvalidOffset {
		return nil, nil
	}
	c, err := r.cell(nk.ValueListOffset)
	if err != nil {
		return nil, err
	}
	offs, err := format.DecodeValueList(c.Data, nk.ValueCount)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	out := make([]types.ValueID, len(offs))
	for i, off := range offs {
		out[i] = types.ValueID(off)
	}
	return out, nil
}

// ValueName returns the decoded value name. The default value has an empty
// name.
func (r *Reader) ValueName(id types.ValueID) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	vk, err := r.vk(id)
	if err != nil {
		return "", err
	}
	name, err := decodeName(vk.NameRaw, vk.NameIsASCII())
	if err != nil {
		return "", wrapFormatErr(err)
	}
	return name, nil
}

// ValueType returns the value's REG_* type code.
func (r *Reader) ValueType(id types.ValueID) (types.RegType, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	vk, err := r.vk(id)
	if err != nil {
		return 0, err
	}
	return types.RegType(vk.Type), nil
}

// ValueBytes returns a copy of the value's raw data. Inline data, single
// cells and "db" big data chains are all handled.
func (r *Reader) ValueBytes(id types.ValueID) ([]byte, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	vk, err := r.vk(id)
	if err != nil {
		return nil, err
	}
	n := vk.Length()
	if n == 0 {
		return []byte{}, nil
	}
	if vk.DataInline() {
		if n > format.OffsetFieldSize {
			return nil, &types.Error{
				Kind: types.ErrKindCorrupt,
				Msg:  fmt.Sprintf("inline value data length %d", n),
				Err:  types.ErrCorrupt,
			}
		}
		var raw [format.OffsetFieldSize]byte
		raw[0] = byte(vk.DataOffset)
		raw[1] = byte(vk.DataOffset >> 8)
		raw[2] = byte(vk.DataOffset >> 16)
		raw[3] = byte(vk.DataOffset >> 24)
		return append([]byte(nil), raw[:n]...), nil
	}

	c, err := r.cell(vk.DataOffset)
	if err != nil {
		return nil, err
	}
	if n > format.DBChunkSize && format.IsDBRecord(c.Data) {
		return r.bigData(c.Data, n)
	}
	if len(c.Data) < n {
		if !r.opts.Tolerant {
			return nil, &types.Error{
				Kind: types.ErrKindCorrupt,
				Msg:  fmt.Sprintf("value data cell holds %d bytes, want %d", len(c.Data), n),
				Err:  types.ErrCorrupt,
			}
		}
		n = len(c.Data)
	}
	return append([]byte(nil), c.Data[:n]...), nil
}

func (r *Reader) bigData(header []byte, n int) ([]byte, error) {
	db, err := format.DecodeDB(header)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	list, err := r.cell(db.BlocklistOffset)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, n)
	for i := 0; i < int(db.NumBlocks) && len(out) < n; i++ {
		off, ok := buf.U32At(list.Data, i*format.OffsetFieldSize)
		if !ok {
			return nil, wrapFormatErr(fmt.Errorf("db blocklist entry %d: %w", i, format.ErrTruncated))
		}
		blk, err := r.cell(off)
		if err != nil {
			return nil, err
		}
		chunk := blk.Data
		if len(chunk) > format.DBChunkSize {
			chunk = chunk[:format.DBChunkSize]
		}
		if rem := n - len(out); len(chunk) > rem {
			chunk = chunk[:rem]
		}
		out = append(out, chunk...)
	}
	if len(out) < n && !r.opts.Tolerant {
		return nil, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("big data holds %d bytes, want %d", len(out), n),
			Err:  types.ErrCorrupt,
		}
	}
	return out, nil
}
