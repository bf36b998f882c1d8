package format

import "time"

const (
	filetimeOffset = 116444736000000000 // 1601-01-01 to 1970-01-01 in 100ns units
	filetimeUnit   = 100                // FILETIME units are 100ns
)

// FiletimeToTime converts a FILETIME from hive metadata (key and header
// last-write stamps) to time.Time. Values at or before the Unix epoch clamp
// to it.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeOffset {
		return time.Unix(0, 0).UTC()
	}
	ticks := v - filetimeOffset
	sec := int64(ticks / 10_000_000)
	nsec := int64(ticks%10_000_000) * filetimeUnit
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime converts t to a FILETIME value.
func TimeToFiletime(t time.Time) uint64 {
	ns := t.UnixNano()
	if ns < 0 {
		ns = 0
	}
	return uint64(ns)/filetimeUnit + filetimeOffset
}
