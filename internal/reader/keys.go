package reader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coquinn7/UserAssist/internal/format"
	"github.com/coquinn7/UserAssist/pkg/types"
)

// KeyName returns the decoded name of a key.
func (r *Reader) KeyName(id types.NodeID) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	nk, err := r.nk(id)
	if err != nil {
		return "", err
	}
	name, err := decodeName(nk.NameRaw, nk.NameIsCompressed())
	if err != nil {
		return "", wrapFormatErr(err)
	}
	return name, nil
}

// KeyLastWrite returns the key's last write timestamp.
func (r *Reader) KeyLastWrite(id types.NodeID) (time.Time, error) {
	if err := r.ensureOpen(); err != nil {
		return time.Time{}, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return time.Time{}, err
	}
	return format.FiletimeToTime(nk.LastWriteRaw), nil
}

// Subkeys lists direct child keys in subkey-list order.
func (r *Reader) Subkeys(id types.NodeID) ([]types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if nk.SubkeyCount == 0 || nk.SubkeyListOffset == format.InvalidOffset {
		return nil, nil
	}
	offs, err := r.subkeyList(nk.SubkeyListOffset, 0)
	if err != nil {
		return nil, err
	}
	if uint32(len(offs)) > nk.SubkeyCount {
		offs = offs[:nk.SubkeyCount]
	}
	out := make([]types.NodeID, len(offs))
	for i, off := range offs {
		out[i] = types.NodeID(off)
	}
	return out, nil
}

// subkeyList flattens LI/LF/LH lists and follows RI indirection. RI lists
// only ever point at leaf lists, so depth is capped at one level.
func (r *Reader) subkeyList(offset uint32, depth int) ([]uint32, error) {
	c, err := r.cell(offset)
	if err != nil {
		return nil, err
	}
	kind, offs, err := format.DecodeSubkeyList(c.Data)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	if kind != format.ListRI {
		return offs, nil
	}
	if depth > 0 {
		return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "nested ri subkey list", Err: types.ErrCorrupt}
	}
	var out []uint32
	for _, sub := range offs {
		leaf, err := r.subkeyList(sub, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, leaf...)
	}
	return out, nil
}

// Lookup finds a direct child key by name (case-insensitive).
func (r *Reader) Lookup(parent types.NodeID, childName string) (types.NodeID, error) {
	children, err := r.Subkeys(parent)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		name, err := r.KeyName(child)
		if err != nil {
			continue
		}
		if strings.EqualFold(name, childName) {
			return child, nil
		}
	}
	return 0, &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf("subkey %q not found", childName),
		Err:  types.ErrNotFound,
	}
}

var rootAliases = []string{
	"HKEY_CURRENT_USER", "HKCU",
	"HKEY_LOCAL_MACHINE", "HKLM",
	"HKEY_USERS", "HKU",
	"HKEY_CLASSES_ROOT", "HKCR",
}

// Find resolves a backslash separated path from the root key. A leading
// root alias (HKCU, HKLM, ...) or the root key's own name is ignored.
func (r *Reader) Find(path string) (types.NodeID, error) {
	root, err := r.Root()
	if err != nil {
		return 0, err
	}
	segs := splitPath(path)
	if len(segs) > 0 && isRootAlias(segs[0]) {
		segs = segs[1:]
	}
	if len(segs) > 0 {
		if rootName, err := r.KeyName(root); err == nil && strings.EqualFold(rootName, segs[0]) {
			segs = segs[1:]
		}
	}
	cur := root
	for i, seg := range segs {
		next, err := r.Lookup(cur, seg)
		if err != nil {
			if !errors.Is(err, types.ErrNotFound) {
				return 0, err
			}
			return 0, &types.Error{
				Kind: types.ErrKindNotFound,
				Msg:  fmt.Sprintf("key %s not found", strings.Join(segs[:i+1], `\`)),
				Err:  err,
			}
		}
		cur = next
	}
	return cur, nil
}

func splitPath(path string) []string {
	path = strings.ReplaceAll(strings.TrimSpace(path), "/", `\`)
	var out []string
	for _, p := range strings.Split(path, `\`) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isRootAlias(seg string) bool {
	for _, a := range rootAliases {
		if strings.EqualFold(a, seg) {
			return true
		}
	}
	return false
}
