package userassist

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is how last-executed times are rendered.
const TimestampLayout = "2006-01-02 15:04:05 (UTC)"

const (
	epochAsFiletime = 116444736000000000 // 1601-01-01 to 1970-01-01 in 100ns ticks
	ticksPerSecond  = 10_000_000
)

// Representable calendar range: 0001-01-01 00:00:00 .. 9999-12-31 23:59:59.
var (
	minUnix = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxUnix = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// ErrTimestampOutOfRange is returned for FILETIMEs past year 9999.
var ErrTimestampOutOfRange = errors.New("filetime out of range")

// FiletimeToTime converts a FILETIME to whole UTC seconds, discarding the
// sub-second part (floor). Zero is not special here; callers treat it as
// "never" before calling.
func FiletimeToTime(ft uint64) (time.Time, error) {
	var secs int64
	if ft >= epochAsFiletime {
		secs = int64((ft - epochAsFiletime) / ticksPerSecond)
	} else {
		d := epochAsFiletime - ft
		secs = -int64((d + ticksPerSecond - 1) / ticksPerSecond)
	}
	if secs < minUnix || secs > maxUnix {
		return time.Time{}, fmt.Errorf("%w: %d", ErrTimestampOutOfRange, ft)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// ConvertFiletime renders a FILETIME as "YYYY-MM-DD HH:MM:SS (UTC)".
func ConvertFiletime(ft uint64) (string, error) {
	t, err := FiletimeToTime(ft)
	if err != nil {
		return "", err
	}
	return t.Format(TimestampLayout), nil
}
