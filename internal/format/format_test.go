package format

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

func TestParseHeader(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, REGFSignature)
	binary.LittleEndian.PutUint32(b[REGFPrimarySeqOffset:], 7)
	binary.LittleEndian.PutUint32(b[REGFSecondarySeqOffset:], 7)
	binary.LittleEndian.PutUint32(b[REGFMajorVersionOffset:], 1)
	binary.LittleEndian.PutUint32(b[REGFMinorVersionOffset:], 5)
	binary.LittleEndian.PutUint32(b[REGFRootCellOffset:], 0x20)
	binary.LittleEndian.PutUint32(b[REGFDataSizeOffset:], 0x1000)
	copy(b[REGFFileNameOffset:], []byte{'n', 0, 't', 0})

	h, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.PrimarySequence != 7 || h.MinorVersion != 5 || h.RootCellOffset != 0x20 || h.HiveBinsDataSize != 0x1000 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if len(h.FileNameRaw) != REGFFileNameSize || h.FileNameRaw[0] != 'n' {
		t.Fatalf("unexpected file name bytes: %v", h.FileNameRaw[:4])
	}
}

func TestParseHeaderBadSignature(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, "nope")
	if _, err := ParseHeader(b); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
	if _, err := ParseHeader([]byte("re")); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch for short buffer, got %v", err)
	}
	if _, err := ParseHeader([]byte("regf")); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
}

func TestHeaderChecksum(t *testing.T) {
	b := make([]byte, HeaderSize)
	if got := HeaderChecksum(b); got != 1 {
		t.Fatalf("zero checksum must map to 1, got %d", got)
	}
	binary.LittleEndian.PutUint32(b[0:], 0x0F0F0F0F)
	binary.LittleEndian.PutUint32(b[4:], 0x00FF00FF)
	if got := HeaderChecksum(b); got != 0x0FF00FF0 {
		t.Fatalf("checksum = %#x", got)
	}
}

func TestNextHBIN(t *testing.T) {
	b := make([]byte, HeaderSize+HBINAlignment)
	copy(b[HeaderSize:], HBINSignature)
	binary.LittleEndian.PutUint32(b[HeaderSize+HBINSizeOffset:], HBINAlignment)

	h, next, err := NextHBIN(b, HeaderSize)
	if err != nil {
		t.Fatalf("NextHBIN: %v", err)
	}
	if h.Size != HBINAlignment || next != HeaderSize+HBINAlignment {
		t.Fatalf("unexpected hbin %+v next=%#x", h, next)
	}

	binary.LittleEndian.PutUint32(b[HeaderSize+HBINSizeOffset:], 0x1234)
	if _, _, err := NextHBIN(b, HeaderSize); err == nil {
		t.Fatalf("expected misaligned size error")
	}
	binary.LittleEndian.PutUint32(b[HeaderSize+HBINSizeOffset:], 2*HBINAlignment)
	if _, _, err := NextHBIN(b, HeaderSize); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
}

func TestParseCell(t *testing.T) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b, uint32(0xFFFFFFF0)) // -16
	copy(b[4:], "nk")

	c, err := ParseCell(b)
	if err != nil {
		t.Fatalf("ParseCell: %v", err)
	}
	if c.Free || c.Size != 16 || len(c.Data) != 12 || string(c.Data[:2]) != "nk" {
		t.Fatalf("unexpected cell %+v", c)
	}

	binary.LittleEndian.PutUint32(b, 32)
	if _, err := ParseCell(b); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation for oversized cell, got %v", err)
	}
	binary.LittleEndian.PutUint32(b, 0)
	if _, err := ParseCell(b); err == nil {
		t.Fatalf("expected zero-length error")
	}
}

func TestDecodeNKCompressedName(t *testing.T) {
	b := make([]byte, NKFixedHeaderSize+5)
	copy(b, NKSignature)
	binary.LittleEndian.PutUint16(b[NKFlagsOffset:], NKFlagCompressedName)
	binary.LittleEndian.PutUint32(b[NKSubkeyCountOffset:], 1)
	binary.LittleEndian.PutUint32(b[NKSubkeyListOffset:], 0x200)
	binary.LittleEndian.PutUint32(b[NKValueCountOffset:], 2)
	binary.LittleEndian.PutUint32(b[NKValueListOffset:], 0x300)
	binary.LittleEndian.PutUint16(b[NKNameLenOffset:], 5)
	copy(b[NKNameOffset:], "Count")

	nk, err := DecodeNK(b)
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if string(nk.NameRaw) != "Count" || !nk.NameIsCompressed() {
		t.Fatalf("unexpected name: %+v", nk)
	}
	if nk.SubkeyCount != 1 || nk.ValueCount != 2 || nk.ValueListOffset != 0x300 {
		t.Fatalf("unexpected counts: %+v", nk)
	}

	binary.LittleEndian.PutUint16(b[NKNameLenOffset:], 50)
	if _, err := DecodeNK(b); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated name, got %v", err)
	}
	binary.LittleEndian.PutUint16(b[NKNameLenOffset:], 5)
	binary.LittleEndian.PutUint32(b[NKValueCountOffset:], MaxValueCount+1)
	if _, err := DecodeNK(b); !errors.Is(err, ErrSanityLimit) {
		t.Fatalf("expected sanity limit, got %v", err)
	}
}

func TestDecodeVKInline(t *testing.T) {
	b := make([]byte, VKFixedHeaderSize+3)
	copy(b, VKSignature)
	binary.LittleEndian.PutUint16(b[VKNameLenOffset:], 3)
	binary.LittleEndian.PutUint32(b[VKDataLenOffset:], VKDataInlineBit|4)
	binary.LittleEndian.PutUint32(b[VKDataOffOffset:], 0xdeadbeef)
	binary.LittleEndian.PutUint32(b[VKTypeOffset:], 4)
	binary.LittleEndian.PutUint16(b[VKFlagsOffset:], VKFlagASCIIName)
	copy(b[VKNameOffset:], "abc")

	vk, err := DecodeVK(b)
	if err != nil {
		t.Fatalf("DecodeVK: %v", err)
	}
	if !vk.DataInline() || vk.Length() != 4 || vk.DataOffset != 0xdeadbeef {
		t.Fatalf("unexpected data fields: %+v", vk)
	}
	if !vk.NameIsASCII() || string(vk.NameRaw) != "abc" {
		t.Fatalf("unexpected name: %+v", vk)
	}

	copy(b, "nk")
	if _, err := DecodeVK(b); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
}

func TestDecodeSubkeyList(t *testing.T) {
	lf := make([]byte, ListHeaderSize+2*LFEntrySize)
	copy(lf, LFSignature)
	binary.LittleEndian.PutUint16(lf[SignatureSize:], 2)
	binary.LittleEndian.PutUint32(lf[ListHeaderSize:], 0x100)
	binary.LittleEndian.PutUint32(lf[ListHeaderSize+LFEntrySize:], 0x200)

	kind, offs, err := DecodeSubkeyList(lf)
	if err != nil {
		t.Fatalf("DecodeSubkeyList(lf): %v", err)
	}
	if kind != ListLF || len(offs) != 2 || offs[0] != 0x100 || offs[1] != 0x200 {
		t.Fatalf("unexpected lf decode: %v %v", kind, offs)
	}

	ri := make([]byte, ListHeaderSize+OffsetFieldSize)
	copy(ri, RISignature)
	binary.LittleEndian.PutUint16(ri[SignatureSize:], 1)
	binary.LittleEndian.PutUint32(ri[ListHeaderSize:], 0x400)
	kind, offs, err = DecodeSubkeyList(ri)
	if err != nil || kind != ListRI || len(offs) != 1 || offs[0] != 0x400 {
		t.Fatalf("unexpected ri decode: %v %v %v", kind, offs, err)
	}

	binary.LittleEndian.PutUint16(ri[SignatureSize:], 9)
	if _, _, err := DecodeSubkeyList(ri); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
	if _, _, err := DecodeSubkeyList([]byte("zz\x00\x00")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestDecodeValueList(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b, 0x10)
	binary.LittleEndian.PutUint32(b[4:], 0x20)
	offs, err := DecodeValueList(b, 2)
	if err != nil || len(offs) != 2 || offs[1] != 0x20 {
		t.Fatalf("DecodeValueList = %v, %v", offs, err)
	}
	if _, err := DecodeValueList(b, 3); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
}

func TestDecodeDB(t *testing.T) {
	b := make([]byte, DBMinSize)
	copy(b, DBSignature)
	binary.LittleEndian.PutUint16(b[DBCountOffset:], 3)
	binary.LittleEndian.PutUint32(b[DBListOffset:], 0x880)
	db, err := DecodeDB(b)
	if err != nil || db.NumBlocks != 3 || db.BlocklistOffset != 0x880 {
		t.Fatalf("DecodeDB = %+v, %v", db, err)
	}
	if IsDBRecord([]byte("vk")) {
		t.Fatalf("vk tag must not be a db record")
	}
}

func TestFiletimeRoundTrip(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 800, time.UTC)
	got := FiletimeToTime(TimeToFiletime(ts))
	if !got.Equal(ts) {
		t.Fatalf("round trip = %v, want %v", got, ts)
	}
	if !FiletimeToTime(0).Equal(time.Unix(0, 0)) {
		t.Fatalf("pre-epoch values must clamp to the epoch")
	}
}
