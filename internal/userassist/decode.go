package userassist

import (
	"fmt"
	"time"

	"github.com/coquinn7/UserAssist/internal/buf"
)

// Layout identifies a Count value payload format by its length.
type Layout int

const (
	LayoutUnknown  Layout = iota
	LayoutLegacy16        // Windows XP / 2003
	LayoutModern72        // Windows 7 and later
)

func (l Layout) String() string {
	switch l {
	case LayoutLegacy16:
		return "legacy16"
	case LayoutModern72:
		return "modern72"
	}
	return "unknown"
}

// LayoutOf classifies a payload length.
func LayoutOf(n int) Layout {
	switch n {
	case 16:
		return LayoutLegacy16
	case 72:
		return LayoutModern72
	}
	return LayoutUnknown
}

// Byte offsets inside the two payload layouts.
const (
	legacyRunCountOff     = 4
	legacyLastExecutedOff = 8

	modernRunCountOff     = 4
	modernFocusCountOff   = 8
	modernFocusTimeOff    = 12
	modernLastExecutedOff = 60

	// The legacy counter starts at 5.
	legacyRunCountBase = 5
)

// Fields are the metrics decoded from one payload. A nil pointer means the
// field is absent.
type Fields struct {
	Layout       Layout
	RunCount     *int64
	FocusCount   *uint32
	FocusTime    *time.Duration
	LastExecuted *time.Time
}

// Empty reports whether no metric is present.
func (f Fields) Empty() bool {
	return f.RunCount == nil && f.FocusCount == nil && f.FocusTime == nil && f.LastExecuted == nil
}

// Decode extracts metrics from a Count value payload. Lengths other than 16
// and 72 yield empty Fields and no error. An out of range last-executed
// FILETIME leaves LastExecuted nil and is reported as an error wrapping
// ErrTimestampOutOfRange; the other fields are still valid in that case.
func Decode(raw []byte) (Fields, error) {
	f := Fields{Layout: LayoutOf(len(raw))}
	var ftOff int
	switch f.Layout {
	case LayoutLegacy16:
		rc, _ := buf.U32At(raw, legacyRunCountOff)
		run := int64(rc) - legacyRunCountBase
		f.RunCount = &run
		ftOff = legacyLastExecutedOff
	case LayoutModern72:
		rc, _ := buf.U32At(raw, modernRunCountOff)
		fc, _ := buf.U32At(raw, modernFocusCountOff)
		ms, _ := buf.U32At(raw, modernFocusTimeOff)
		run := int64(rc)
		focus := time.Duration(ms) * time.Millisecond
		f.RunCount, f.FocusCount, f.FocusTime = &run, &fc, &focus
		ftOff = modernLastExecutedOff
	default:
		return f, nil
	}

	ft, _ := buf.U64At(raw, ftOff)
	if ft == 0 {
		return f, nil
	}
	t, err := FiletimeToTime(ft)
	if err != nil {
		return f, fmt.Errorf("last executed: %w", err)
	}
	f.LastExecuted = &t
	return f, nil
}

// FormatFocusTime renders d as H:MM:SS, truncating sub-second precision.
// A day or more is prefixed with "N day, " or "N days, ".
func FormatFocusTime(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	hms := fmt.Sprintf("%d:%02d:%02d", rem/3600, rem%3600/60, rem%60)
	switch {
	case days == 1:
		return "1 day, " + hms
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, hms)
	}
	return hms
}
