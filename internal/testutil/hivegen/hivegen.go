// Package hivegen builds small, well-formed registry hive images in memory
// for tests. The layout mirrors what Windows writes: a REGF base block
// followed by a single HBIN holding NK, VK, list and data cells.
package hivegen

import (
	"encoding/binary"
	"time"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/coquinn7/UserAssist/internal/format"
)

// REG_* value types used by the fixtures.
const (
	RegSZ     = 1
	RegBinary = 3
	RegDWORD  = 4
)

// Value is a value to place under a key.
type Value struct {
	Name      string
	Type      uint32
	Data      []byte
	UTF16Name bool // store the name as UTF-16LE instead of Windows-1252
}

// Key is a key subtree. List selects the subkey list flavour: "lf" (default),
// "lh", "li" or "ri".
type Key struct {
	Name      string
	UTF16Name bool
	List      string
	Values    []Value
	Children  []Key
	LastWrite time.Time // zero leaves the FILETIME at 0
}

// Options describe the hive to build.
type Options struct {
	// FileName is embedded in the base block, e.g. `\??\C:\Users\a\ntuser.dat`.
	FileName string
	Root     Key
}

type builder struct {
	data []byte // HBIN image, offsets in here are cell offsets
}

// Build renders the hive image.
func Build(opts Options) []byte {
	b := &builder{data: make([]byte, format.HBINHeaderSize)}
	root := opts.Root
	if root.Name == "" {
		root.Name = "ROOT"
	}
	rootOff := b.key(root, true)

	size := alignUp(len(b.data), format.HBINAlignment)
	if size == len(b.data) {
		size += format.HBINAlignment
	}
	if free := size - len(b.data); free > 0 {
		cell := make([]byte, free)
		binary.LittleEndian.PutUint32(cell, uint32(free))
		b.data = append(b.data, cell...)
	}
	copy(b.data, format.HBINSignature)
	binary.LittleEndian.PutUint32(b.data[format.HBINFileOffsetField:], 0)
	binary.LittleEndian.PutUint32(b.data[format.HBINSizeOffset:], uint32(size))

	head := make([]byte, format.HeaderSize)
	copy(head, format.REGFSignature)
	binary.LittleEndian.PutUint32(head[format.REGFPrimarySeqOffset:], 1)
	binary.LittleEndian.PutUint32(head[format.REGFSecondarySeqOffset:], 1)
	binary.LittleEndian.PutUint64(head[format.REGFTimeStampOffset:], filetime(root.LastWrite))
	binary.LittleEndian.PutUint32(head[format.REGFMajorVersionOffset:], 1)
	binary.LittleEndian.PutUint32(head[format.REGFMinorVersionOffset:], 5)
	binary.LittleEndian.PutUint32(head[format.REGFFormatOffset:], 1)
	binary.LittleEndian.PutUint32(head[format.REGFRootCellOffset:], rootOff)
	binary.LittleEndian.PutUint32(head[format.REGFDataSizeOffset:], uint32(size))
	binary.LittleEndian.PutUint32(head[format.REGFClusterOffset:], 1)
	// The base block keeps only the tail of the path plus a NUL.
	name := utf16.Encode([]rune(opts.FileName))
	if limit := format.REGFFileNameSize/2 - 1; len(name) > limit {
		name = name[len(name)-limit:]
	}
	for i, u := range name {
		binary.LittleEndian.PutUint16(head[format.REGFFileNameOffset+i*2:], u)
	}
	binary.LittleEndian.PutUint32(head[format.REGFCheckSumOffset:], format.HeaderChecksum(head))

	return append(head, b.data...)
}

// alloc appends an allocated cell holding payload and returns its offset.
func (b *builder) alloc(payload []byte) uint32 {
	off := uint32(len(b.data))
	size := alignUp(format.CellHeaderSize+len(payload), format.CellAlignment)
	cell := make([]byte, size)
	binary.LittleEndian.PutUint32(cell, uint32(int32(-size)))
	copy(cell[format.CellHeaderSize:], payload)
	b.data = append(b.data, cell...)
	return off
}

func (b *builder) key(k Key, isRoot bool) uint32 {
	children := make([]uint32, len(k.Children))
	for i, child := range k.Children {
		children[i] = b.key(child, false)
	}
	listOff := uint32(format.InvalidOffset)
	if len(children) > 0 {
		listOff = b.subkeyList(k.List, children)
	}

	valueListOff := uint32(format.InvalidOffset)
	if len(k.Values) > 0 {
		list := make([]byte, len(k.Values)*format.OffsetFieldSize)
		for i, v := range k.Values {
			binary.LittleEndian.PutUint32(list[i*format.OffsetFieldSize:], b.value(v))
		}
		valueListOff = b.alloc(list)
	}

	nameRaw, compressed := encodeName(k.Name, k.UTF16Name)
	nk := make([]byte, format.NKNameOffset+len(nameRaw))
	copy(nk, format.NKSignature)
	var flags uint16
	if compressed {
		flags |= format.NKFlagCompressedName
	}
	if isRoot {
		flags |= format.NKFlagHiveEntry
	}
	binary.LittleEndian.PutUint16(nk[format.NKFlagsOffset:], flags)
	binary.LittleEndian.PutUint64(nk[format.NKLastWriteOffset:], filetime(k.LastWrite))
	binary.LittleEndian.PutUint32(nk[format.NKParentOffset:], format.InvalidOffset)
	binary.LittleEndian.PutUint32(nk[format.NKSubkeyCountOffset:], uint32(len(children)))
	binary.LittleEndian.PutUint32(nk[format.NKSubkeyListOffset:], listOff)
	binary.LittleEndian.PutUint32(nk[format.NKVolSubkeyListOffset:], format.InvalidOffset)
	binary.LittleEndian.PutUint32(nk[format.NKValueCountOffset:], uint32(len(k.Values)))
	binary.LittleEndian.PutUint32(nk[format.NKValueListOffset:], valueListOff)
	binary.LittleEndian.PutUint32(nk[format.NKSecurityOffset:], format.InvalidOffset)
	binary.LittleEndian.PutUint32(nk[format.NKClassNameOffset:], format.InvalidOffset)
	binary.LittleEndian.PutUint16(nk[format.NKNameLenOffset:], uint16(len(nameRaw)))
	copy(nk[format.NKNameOffset:], nameRaw)
	return b.alloc(nk)
}

func (b *builder) subkeyList(kind string, offs []uint32) uint32 {
	switch kind {
	case "li":
		return b.alloc(listPayload(format.LISignature, offs, format.OffsetFieldSize))
	case "lh":
		return b.alloc(listPayload(format.LHSignature, offs, format.LFEntrySize))
	case "ri":
		half := (len(offs) + 1) / 2
		leaves := []uint32{b.alloc(listPayload(format.LISignature, offs[:half], format.OffsetFieldSize))}
		if half < len(offs) {
			leaves = append(leaves, b.alloc(listPayload(format.LFSignature, offs[half:], format.LFEntrySize)))
		}
		return b.alloc(listPayload(format.RISignature, leaves, format.OffsetFieldSize))
	default:
		return b.alloc(listPayload(format.LFSignature, offs, format.LFEntrySize))
	}
}

func listPayload(sig []byte, offs []uint32, stride int) []byte {
	p := make([]byte, format.ListHeaderSize+len(offs)*stride)
	copy(p, sig)
	binary.LittleEndian.PutUint16(p[format.SignatureSize:], uint16(len(offs)))
	for i, off := range offs {
		binary.LittleEndian.PutUint32(p[format.ListHeaderSize+i*stride:], off)
	}
	return p
}

func (b *builder) value(v Value) uint32 {
	length := uint32(len(v.Data))
	var dataOff uint32
	switch {
	case len(v.Data) <= format.OffsetFieldSize:
		var inline [format.OffsetFieldSize]byte
		copy(inline[:], v.Data)
		dataOff = binary.LittleEndian.Uint32(inline[:])
		length |= format.VKDataInlineBit
	case len(v.Data) > format.DBChunkSize:
		dataOff = b.bigData(v.Data)
	default:
		dataOff = b.alloc(v.Data)
	}

	nameRaw, ascii := encodeName(v.Name, v.UTF16Name)
	vk := make([]byte, format.VKNameOffset+len(nameRaw))
	copy(vk, format.VKSignature)
	binary.LittleEndian.PutUint16(vk[format.VKNameLenOffset:], uint16(len(nameRaw)))
	binary.LittleEndian.PutUint32(vk[format.VKDataLenOffset:], length)
	binary.LittleEndian.PutUint32(vk[format.VKDataOffOffset:], dataOff)
	binary.LittleEndian.PutUint32(vk[format.VKTypeOffset:], v.Type)
	if ascii && len(nameRaw) > 0 {
		binary.LittleEndian.PutUint16(vk[format.VKFlagsOffset:], format.VKFlagASCIIName)
	}
	copy(vk[format.VKNameOffset:], nameRaw)
	return b.alloc(vk)
}

func (b *builder) bigData(data []byte) uint32 {
	var blocks []uint32
	for len(data) > 0 {
		n := min(len(data), format.DBChunkSize)
		blocks = append(blocks, b.alloc(data[:n]))
		data = data[n:]
	}
	list := make([]byte, len(blocks)*format.OffsetFieldSize)
	for i, off := range blocks {
		binary.LittleEndian.PutUint32(list[i*format.OffsetFieldSize:], off)
	}
	listOff := b.alloc(list)

	db := make([]byte, format.DBMinSize)
	copy(db, format.DBSignature)
	binary.LittleEndian.PutUint16(db[format.DBCountOffset:], uint16(len(blocks)))
	binary.LittleEndian.PutUint32(db[format.DBListOffset:], listOff)
	return b.alloc(db)
}

// encodeName returns the on-disk name bytes and whether they are the 8-bit
// (Windows-1252) form.
func encodeName(name string, wide bool) ([]byte, bool) {
	if !wide {
		if raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(name)); err == nil {
			return raw, true
		}
	}
	units := utf16.Encode([]rune(name))
	raw := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	return raw, false
}

func filetime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return format.TimeToFiletime(t)
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
