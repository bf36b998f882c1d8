// Package userassist decodes the UserAssist execution history stored in an
// NTUSER.DAT hive: it walks the Count keys, reverses the ROT13 value names,
// substitutes known folder GUIDs and decodes the 16 and 72 byte payloads.
package userassist

import "time"

// RawEntry is one Count value as read from the hive.
type RawEntry struct {
	Source string // GUID subkey the value lives under
	Name   string // ROT13 encoded value name
	Data   []byte
}

// DecodedRecord is the resolved result for one program.
type DecodedRecord struct {
	Program string
	Source  string
	RawName string
	Fields
}

// FocusTimeText is the focus time as H:MM:SS or "" when absent.
func (r DecodedRecord) FocusTimeText() string {
	if r.FocusTime == nil {
		return ""
	}
	return FormatFocusTime(*r.FocusTime)
}

// LastExecutedText is the last execution time in TimestampLayout or "" when
// absent.
func (r DecodedRecord) LastExecutedText() string {
	if r.LastExecuted == nil {
		return ""
	}
	return r.LastExecuted.Format(TimestampLayout)
}

// Report holds every decoded record in traversal order.
type Report struct {
	Records []DecodedRecord
}

// Rows returns the records with a non-empty field set, in order.
func (r Report) Rows() []DecodedRecord {
	out := make([]DecodedRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if !rec.Empty() {
			out = append(out, rec)
		}
	}
	return out
}

// Suppressed counts records excluded from Rows.
func (r Report) Suppressed() int {
	return len(r.Records) - len(r.Rows())
}

// Meta describes where a report came from.
type Meta struct {
	HivePath  string
	HiveName  string // file name embedded in the hive header
	ParsedAt  time.Time
	GUIDCount int
}
