package userassist

import (
	"strings"

	"github.com/coquinn7/UserAssist/internal/knownfolders"
)

// Rot13 shifts ASCII letters 13 places, preserving case. It is its own
// inverse.
func Rot13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		}
		return r
	}, s)
}

// Resolver turns obfuscated value names into program paths.
type Resolver struct {
	folders knownfolders.Table
}

// NewResolver returns a Resolver backed by folders.
func NewResolver(folders knownfolders.Table) *Resolver {
	return &Resolver{folders: folders}
}

// Resolve reverses ROT13 and, when the first path segment is a known folder
// GUID, replaces that segment with the folder name. Only the leading segment
// is ever substituted.
func (r *Resolver) Resolve(obfuscated string) string {
	return r.Substitute(Rot13(obfuscated))
}

// Substitute applies the leading-segment folder substitution to an already
// decoded path.
func (r *Resolver) Substitute(path string) string {
	head, rest, hasRest := strings.Cut(path, `\`)
	name, ok := r.folders.Lookup(head)
	if !ok {
		return path
	}
	if !hasRest {
		return name
	}
	return name + `\` + rest
}
