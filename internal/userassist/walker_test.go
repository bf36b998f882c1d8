package userassist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coquinn7/UserAssist/internal/reader"
	"github.com/coquinn7/UserAssist/internal/testutil"
	"github.com/coquinn7/UserAssist/internal/testutil/hivegen"
	"github.com/coquinn7/UserAssist/pkg/types"
)

const (
	guidExe = "{CEBFF5CD-ACE2-4F4F-9178-9926F41749EA}"
	guidLnk = "{F4E57C4B-2036-45F0-A9AB-443BCFE33D9F}"
)

func countValue(plainName string, data []byte) hivegen.Value {
	return hivegen.Value{Name: Rot13(plainName), Type: hivegen.RegBinary, Data: data}
}

func openHive(t *testing.T, opts hivegen.Options) *reader.Reader {
	t.Helper()
	r, err := reader.OpenBytes(hivegen.Build(opts), types.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestWalkOrder(t *testing.T) {
	h := openHive(t, testutil.UserAssistHive(testutil.NTUserFileName,
		testutil.GUIDKey(guidExe,
			countValue(`C:\b.exe`, modernPayload(1, 1, 1000, ft2020)),
			countValue(`C:\a.exe`, modernPayload(2, 2, 2000, ft2020)),
		),
		testutil.GUIDKey(guidLnk,
			countValue(`C:\c.lnk`, legacyPayload(9, 0)),
		),
	))

	entries, err := Walk(h, WalkOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, guidExe, entries[0].Source)
	assert.Equal(t, Rot13(`C:\b.exe`), entries[0].Name)
	assert.Equal(t, Rot13(`C:\a.exe`), entries[1].Name)
	assert.Equal(t, guidLnk, entries[2].Source)
	assert.Len(t, entries[2].Data, 16)
	assert.Len(t, entries[0].Data, 72)
}

func TestWalkSkipsEmptyAndMissingCount(t *testing.T) {
	h := openHive(t, testutil.UserAssistHive(testutil.NTUserFileName,
		hivegen.Key{Name: "{00000000-0000-0000-0000-000000000001}"},
		testutil.GUIDKey("{00000000-0000-0000-0000-000000000002}"),
		testutil.GUIDKey(guidExe, countValue(`C:\a.exe`, modernPayload(2, 2, 2000, ft2020))),
	))

	entries, err := Walk(h, WalkOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, guidExe, entries[0].Source)
}

func TestWalkWrongHiveType(t *testing.T) {
	opts := testutil.UserAssistHive(`\??\C:\Windows\System32\config\SOFTWARE`,
		testutil.GUIDKey(guidExe, countValue(`C:\a.exe`, legacyPayload(6, 0))),
	)
	h := openHive(t, opts)

	_, err := Walk(h, WalkOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongHiveType)
	assert.Contains(t, err.Error(), "software")

	entries, err := Walk(h, WalkOptions{SkipTypeCheck: true})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWalkMissingUserAssist(t *testing.T) {
	h := openHive(t, hivegen.Options{
		FileName: testutil.NTUserFileName,
		Root: hivegen.Key{Name: "ROOT", Children: []hivegen.Key{
			testutil.Nest([]string{"Software", "Microsoft"}, hivegen.Key{Name: "Windows"}),
		}},
	})

	_, err := Walk(h, WalkOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.NotErrorIs(t, err, ErrWrongHiveType)
}

func TestWalkCaseInsensitivePath(t *testing.T) {
	ua := hivegen.Key{Name: "USERASSIST", Children: []hivegen.Key{
		testutil.GUIDKey(guidExe, countValue(`C:\a.exe`, legacyPayload(6, 0))),
	}}
	h := openHive(t, hivegen.Options{
		FileName: testutil.NTUserFileName,
		Root: hivegen.Key{Name: "CMI-CreateHive{D43B12B8-09B5-40DB-B4F6-F6DFEB78DAEC}", Children: []hivegen.Key{
			testutil.Nest([]string{"SOFTWARE", "Microsoft", "Windows", "CurrentVersion", "Explorer"}, ua),
		}},
	})

	entries, err := Walk(h, WalkOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
