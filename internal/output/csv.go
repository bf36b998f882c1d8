// Package output writes UserAssist reports to disk as CSV, JSON or SQLite,
// optionally sealed with age.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/coquinn7/UserAssist/internal/userassist"
)

// Header is the CSV column contract.
var Header = []string{"Program", "Run Count", "Focus Count", "Focus Time", "Last Executed"}

// WriteCSV writes the header and one row per record with metrics. Absent
// fields are empty cells. Lines end in CRLF.
func WriteCSV(w io.Writer, rep userassist.Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range rep.Rows() {
		if err := cw.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("write csv row %q: %w", rec.Program, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(rec userassist.DecodedRecord) []string {
	row := []string{rec.Program, "", "", rec.FocusTimeText(), rec.LastExecutedText()}
	if rec.RunCount != nil {
		row[1] = strconv.FormatInt(*rec.RunCount, 10)
	}
	if rec.FocusCount != nil {
		row[2] = strconv.FormatUint(uint64(*rec.FocusCount), 10)
	}
	return row
}
