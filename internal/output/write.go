package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coquinn7/UserAssist/internal/logging"
	"github.com/coquinn7/UserAssist/internal/userassist"
)

// Format is an output file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// BaseName is the file name stem shared by all outputs.
const BaseName = "UserAssist"

// FileName returns the output file name for f, e.g. "UserAssist.csv".
func (f Format) FileName() string {
	switch f {
	case FormatSQLite:
		return BaseName + ".db"
	default:
		return BaseName + "." + string(f)
	}
}

// ParseFormats normalises a list such as ["csv", "JSON"] or ["csv,json"],
// dropping duplicates. An empty list selects CSV.
func ParseFormats(list []string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, item := range list {
		for _, s := range strings.Split(item, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			f := Format(s)
			switch f {
			case FormatCSV, FormatJSON, FormatSQLite:
			default:
				return nil, fmt.Errorf("unknown output format %q (want csv, json or sqlite)", s)
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		out = []Format{FormatCSV}
	}
	return out, nil
}

// Options control Write.
type Options struct {
	Dir          string
	Formats      []Format
	AgeRecipient string // when set every file is sealed and gets SealSuffix
}

// Write creates opts.Dir if needed and writes one file per format. It
// returns the paths written.
func Write(rep userassist.Report, meta userassist.Meta, opts Options) ([]string, error) {
	if opts.AgeRecipient != "" {
		if err := ValidateRecipient(opts.AgeRecipient); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatCSV}
	}

	var written []string
	for _, f := range formats {
		path := filepath.Join(opts.Dir, f.FileName())
		if opts.AgeRecipient != "" {
			path += SealSuffix
		}
		var err error
		switch f {
		case FormatCSV:
			err = writeStream(path, opts.AgeRecipient, func(w io.Writer) error { return WriteCSV(w, rep) })
		case FormatJSON:
			err = writeStream(path, opts.AgeRecipient, func(w io.Writer) error { return WriteJSON(w, rep, meta) })
		case FormatSQLite:
			err = writeSQLite(path, opts.AgeRecipient, rep, meta)
		default:
			err = fmt.Errorf("unknown output format %q", f)
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		logging.Info("output written", "path", path, "format", string(f))
		written = append(written, path)
	}
	return written, nil
}

// writeStream creates path and runs fn against it, through an age writer
// when recipient is set.
func writeStream(path, recipient string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var sealer io.WriteCloser
	if recipient != "" {
		if sealer, err = sealWriter(f, recipient); err != nil {
			f.Close()
			return err
		}
		w = sealer
	}
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if sealer != nil {
		if err := sealer.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to finalize encryption: %w", err)
		}
	}
	return f.Close()
}

// writeSQLite builds the database at path. When sealing, the plaintext
// database is built in a private temp dir and removed once sealed.
func writeSQLite(path, recipient string, rep userassist.Report, meta userassist.Meta) error {
	dbPath := path
	if recipient != "" {
		tmp, err := os.MkdirTemp("", "uaparse-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dbPath = filepath.Join(tmp, FormatSQLite.FileName())
	} else if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	store, err := OpenStore(dbPath)
	if err != nil {
		return err
	}
	if _, err := store.InsertReport(rep, meta); err != nil {
		store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}
	if recipient == "" {
		return nil
	}
	return sealFile(dbPath, path, recipient)
}
