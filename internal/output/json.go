package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/coquinn7/UserAssist/internal/userassist"
)

type jsonDocument struct {
	Hive     string       `json:"hive"`
	HiveName string       `json:"hive_name,omitempty"`
	ParsedAt time.Time    `json:"parsed_at"`
	Records  []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Program          string     `json:"program"`
	Source           string     `json:"source"`
	RawName          string     `json:"raw_name"`
	Layout           string     `json:"layout"`
	RunCount         *int64     `json:"run_count,omitempty"`
	FocusCount       *uint32    `json:"focus_count,omitempty"`
	FocusTime        string     `json:"focus_time,omitempty"`
	FocusTimeMS      *int64     `json:"focus_time_ms,omitempty"`
	LastExecuted     *time.Time `json:"last_executed,omitempty"`
	LastExecutedText string     `json:"last_executed_text,omitempty"`
}

// WriteJSON writes the records with metrics as one indented JSON document.
func WriteJSON(w io.Writer, rep userassist.Report, meta userassist.Meta) error {
	doc := jsonDocument{
		Hive:     meta.HivePath,
		HiveName: meta.HiveName,
		ParsedAt: meta.ParsedAt,
		Records:  make([]jsonRecord, 0, len(rep.Records)),
	}
	for _, rec := range rep.Rows() {
		jr := jsonRecord{
			Program:          rec.Program,
			Source:           rec.Source,
			RawName:          rec.RawName,
			Layout:           rec.Layout.String(),
			RunCount:         rec.RunCount,
			FocusCount:       rec.FocusCount,
			FocusTime:        rec.FocusTimeText(),
			LastExecuted:     rec.LastExecuted,
			LastExecutedText: rec.LastExecutedText(),
		}
		if rec.FocusTime != nil {
			ms := rec.FocusTime.Milliseconds()
			jr.FocusTimeMS = &ms
		}
		doc.Records = append(doc.Records, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
