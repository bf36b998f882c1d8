// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coquinn7/UserAssist/internal/testutil/hivegen"
)

// NTUserFileName is the base block file name Windows writes for a user hive.
const NTUserFileName = `\??\C:\Users\analyst\ntuser.dat`

// UserAssistPath is the key path of the UserAssist subtree below the root.
var UserAssistPath = []string{"Software", "Microsoft", "Windows", "CurrentVersion", "Explorer", "UserAssist"}

// WriteHive renders opts and writes the image to a temporary file named
// name. The file is removed with the test's temp dir.
func WriteHive(t *testing.T, name string, opts hivegen.Options) string {
	t.Helper()
	return WriteBytes(t, name, hivegen.Build(opts))
}

// WriteBytes writes data to a temporary file and returns its path.
func WriteBytes(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Nest wraps leaf under a chain of keys named by path, outermost first.
func Nest(path []string, leaf hivegen.Key) hivegen.Key {
	for i := len(path) - 1; i >= 0; i-- {
		leaf = hivegen.Key{Name: path[i], Children: []hivegen.Key{leaf}}
	}
	return leaf
}

// UserAssistHive returns a hive whose UserAssist key holds the given GUID
// subkeys.
func UserAssistHive(fileName string, guids ...hivegen.Key) hivegen.Options {
	ua := hivegen.Key{Name: UserAssistPath[len(UserAssistPath)-1], Children: guids}
	return hivegen.Options{
		FileName: fileName,
		Root: hivegen.Key{
			Name:     "ROOT",
			Children: []hivegen.Key{Nest(UserAssistPath[:len(UserAssistPath)-1], ua)},
		},
	}
}

// GUIDKey builds a "{GUID}\Count" subtree with the given values.
func GUIDKey(guid string, values ...hivegen.Value) hivegen.Key {
	return hivegen.Key{
		Name:     guid,
		Children: []hivegen.Key{{Name: "Count", Values: values}},
	}
}
