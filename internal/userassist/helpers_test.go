package userassist

import "encoding/binary"

func legacyPayload(run uint32, ft uint64) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[4:], run)
	binary.LittleEndian.PutUint64(b[8:], ft)
	return b
}

func modernPayload(run, focusCount, focusMS uint32, ft uint64) []byte {
	b := make([]byte, 72)
	binary.LittleEndian.PutUint32(b[4:], run)
	binary.LittleEndian.PutUint32(b[8:], focusCount)
	binary.LittleEndian.PutUint32(b[12:], focusMS)
	// Decay values Windows stores between the counters and the timestamp.
	for i := 16; i < 60; i++ {
		b[i] = 0xBF
	}
	binary.LittleEndian.PutUint64(b[60:], ft)
	binary.LittleEndian.PutUint32(b[68:], 0xFFFFFFFF)
	return b
}

const (
	ft1970 = 116444736000000000
	ft2020 = 132223104000000000 // 2020-01-01 00:00:00
)
