package userassist

import (
	"errors"
	"fmt"

	"github.com/coquinn7/UserAssist/internal/logging"
	"github.com/coquinn7/UserAssist/pkg/types"
)

// KeyPath is the UserAssist key below the root of an NTUSER.DAT hive.
const KeyPath = `Software\Microsoft\Windows\CurrentVersion\Explorer\UserAssist`

const countKey = "Count"

// ErrWrongHiveType is returned when the hive is not an NTUSER.DAT.
var ErrWrongHiveType = errors.New("hive is not an NTUSER.DAT")

// Hive is the read-only view of a registry hive the walker needs.
// *reader.Reader satisfies it.
type Hive interface {
	Type() types.HiveType
	Find(path string) (types.NodeID, error)
	Subkeys(id types.NodeID) ([]types.NodeID, error)
	Lookup(parent types.NodeID, name string) (types.NodeID, error)
	KeyName(id types.NodeID) (string, error)
	Values(id types.NodeID) ([]types.ValueID, error)
	ValueName(id types.ValueID) (string, error)
	ValueBytes(id types.ValueID) ([]byte, error)
}

// WalkOptions tunes Walk.
type WalkOptions struct {
	// SkipTypeCheck accepts hives whose header does not name them ntuser.dat.
	SkipTypeCheck bool
}

// Walk collects every Count value under the UserAssist key in subkey and
// value list order. A missing UserAssist key yields an error matching
// types.ErrNotFound. GUID keys without a Count key or without values are
// logged and skipped, as are values whose data cannot be read.
func Walk(h Hive, opts WalkOptions) ([]RawEntry, error) {
	entries, _, err := walk(h, opts)
	return entries, err
}

func walk(h Hive, opts WalkOptions) ([]RawEntry, int, error) {
	if t := h.Type(); !opts.SkipTypeCheck && t != types.HiveTypeNTUser {
		return nil, 0, fmt.Errorf("%w (detected %s)", ErrWrongHiveType, t)
	}
	ua, err := h.Find(KeyPath)
	if err != nil {
		return nil, 0, fmt.Errorf("userassist key: %w", err)
	}
	logging.Info("found UserAssist key", "path", KeyPath)

	guids, err := h.Subkeys(ua)
	if err != nil {
		return nil, 0, fmt.Errorf("userassist subkeys: %w", err)
	}

	var entries []RawEntry
	for _, g := range guids {
		guid, err := h.KeyName(g)
		if err != nil {
			logging.Warn("skipping unreadable GUID key", "error", err)
			continue
		}
		count, err := h.Lookup(g, countKey)
		if err != nil {
			logging.Warn("GUID key has no Count subkey", "guid", guid, "error", err)
			continue
		}
		values, err := h.Values(count)
		if err != nil {
			logging.Warn("skipping unreadable Count key", "guid", guid, "error", err)
			continue
		}
		if len(values) == 0 {
			logging.Warn("Count key has no values", "guid", guid)
			continue
		}
		logging.Info("parsing GUID with values", "guid", guid, "values", len(values))
		for _, v := range values {
			name, err := h.ValueName(v)
			if err != nil {
				logging.Warn("skipping value with unreadable name", "guid", guid, "error", err)
				continue
			}
			data, err := h.ValueBytes(v)
			if err != nil {
				logging.Warn("skipping value with unreadable data", "guid", guid, "value", name, "error", err)
				continue
			}
			entries = append(entries, RawEntry{Source: guid, Name: name, Data: data})
		}
	}
	return entries, len(guids), nil
}
