package userassist

import (
	"errors"
	"fmt"
	"time"

	"github.com/coquinn7/UserAssist/internal/knownfolders"
	"github.com/coquinn7/UserAssist/internal/logging"
	"github.com/coquinn7/UserAssist/internal/reader"
	"github.com/coquinn7/UserAssist/pkg/types"
)

var _ Hive = (*reader.Reader)(nil)

// Build resolves and decodes every entry, preserving order. Entries whose
// payload has an unrecognised length are kept with empty fields.
func Build(entries []RawEntry, res *Resolver) Report {
	rep := Report{Records: make([]DecodedRecord, 0, len(entries))}
	for _, e := range entries {
		rec := DecodedRecord{
			Program: res.Resolve(e.Name),
			Source:  e.Source,
			RawName: e.Name,
		}
		fields, err := Decode(e.Data)
		if err != nil {
			logging.Warn("discarding last executed time", "program", rec.Program, "error", err)
		}
		if fields.Layout == LayoutUnknown {
			logging.Debug("unrecognised payload length", "program", rec.Program, "length", len(e.Data))
		}
		rec.Fields = fields
		rep.Records = append(rep.Records, rec)
	}
	return rep
}

// Options configure ParseFile.
type Options struct {
	SkipTypeCheck bool
	Tolerant      bool               // return truncated value data instead of skipping the value
	Folders       knownfolders.Table // zero value selects knownfolders.Default()
}

// ParseFile opens the hive at path and builds its UserAssist report.
//
// Errors: types.ErrNotHive when the file is not a hive, ErrWrongHiveType,
// and an error matching types.ErrNotFound when the UserAssist key is absent.
func ParseFile(path string, opts Options) (Report, Meta, error) {
	r, err := reader.Open(path, types.OpenOptions{Tolerant: opts.Tolerant})
	if err != nil {
		return Report{}, Meta{}, err
	}
	defer r.Close()

	meta := Meta{HivePath: path, HiveName: r.Info().FileName, ParsedAt: time.Now().UTC()}
	entries, guids, err := walk(r, WalkOptions{SkipTypeCheck: opts.SkipTypeCheck})
	if err != nil {
		return Report{}, meta, err
	}
	meta.GUIDCount = guids

	folders := opts.Folders
	if folders.Len() == 0 {
		folders = knownfolders.Default()
	}
	rep := Build(entries, NewResolver(folders))
	if n := rep.Suppressed(); n > 0 {
		logging.Info("records without metrics excluded from output", "count", n)
	}
	return rep, meta, nil
}

// IsNotFound reports whether err means the UserAssist key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// Describe summarises a report for log lines.
func Describe(rep Report) string {
	return fmt.Sprintf("%d records, %d with metrics", len(rep.Records), len(rep.Rows()))
}
