package userassist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coquinn7/UserAssist/internal/knownfolders"
	"github.com/coquinn7/UserAssist/internal/testutil"
	"github.com/coquinn7/UserAssist/internal/testutil/hivegen"
	"github.com/coquinn7/UserAssist/pkg/types"
)

func TestBuildPreservesOrder(t *testing.T) {
	entries := []RawEntry{
		{Source: guidExe, Name: Rot13(`C:\z.exe`), Data: modernPayload(1, 1, 1000, ft2020)},
		{Source: guidExe, Name: Rot13(`UEME_CTLSESSION`), Data: make([]byte, 8)},
		{Source: guidExe, Name: Rot13(`{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\a.exe`), Data: legacyPayload(5, 0)},
		{Source: guidLnk, Name: Rot13(`C:\m.lnk`), Data: modernPayload(3, 4, 0, 0)},
	}
	rep := Build(entries, NewResolver(knownfolders.Default()))

	require.Len(t, rep.Records, 4)
	var programs []string
	for _, r := range rep.Records {
		programs = append(programs, r.Program)
	}
	assert.Equal(t, []string{`C:\z.exe`, `UEME_CTLSESSION`, `System\a.exe`, `C:\m.lnk`}, programs)

	assert.Equal(t, Rot13(`C:\z.exe`), rep.Records[0].RawName)
	assert.Equal(t, guidLnk, rep.Records[3].Source)

	rows := rep.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, `C:\z.exe`, rows[0].Program)
	assert.Equal(t, `System\a.exe`, rows[1].Program)
	assert.Equal(t, `C:\m.lnk`, rows[2].Program)
	assert.Equal(t, 1, rep.Suppressed())
	assert.Equal(t, "4 records, 3 with metrics", Describe(rep))
}

func TestBuildKeepsRecordWithBadTimestamp(t *testing.T) {
	rep := Build([]RawEntry{
		{Name: Rot13(`C:\x.exe`), Data: modernPayload(7, 1, 1000, ^uint64(0))},
	}, NewResolver(knownfolders.Default()))

	require.Len(t, rep.Rows(), 1)
	rec := rep.Rows()[0]
	assert.Equal(t, "", rec.LastExecutedText())
	assert.Equal(t, int64(7), *rec.RunCount)
}

func TestParseFile(t *testing.T) {
	path := testutil.WriteHive(t, "NTUSER.DAT", testutil.UserAssistHive(testutil.NTUserFileName,
		testutil.GUIDKey(guidExe,
			countValue(`{6D809377-6AF0-444B-8957-A3773F02200E}\7-Zip\7zFM.exe`, modernPayload(4, 9, 65_000, ft2020)),
			countValue(`UEME_CTLCUACount:ctor`, make([]byte, 16)),
		),
	))

	rep, meta, err := ParseFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, meta.HivePath)
	assert.Equal(t, testutil.NTUserFileName, meta.HiveName)
	assert.Equal(t, 1, meta.GUIDCount)

	require.Len(t, rep.Records, 2)
	assert.Equal(t, `ProgramFilesX64\7-Zip\7zFM.exe`, rep.Records[0].Program)
	assert.Equal(t, "0:01:05", rep.Records[0].FocusTimeText())
	assert.Equal(t, int64(-5), *rep.Records[1].RunCount)
}

func TestParseFileErrors(t *testing.T) {
	notHive := testutil.WriteBytes(t, "garbage.bin", []byte("MZ not a hive at all, just some bytes padding"))
	_, _, err := ParseFile(notHive, Options{})
	assert.ErrorIs(t, err, types.ErrNotHive)

	system := testutil.WriteHive(t, "SYSTEM", hivegen.Options{
		FileName: `SYSTEM`,
		Root:     hivegen.Key{Name: "ROOT"},
	})
	_, _, err = ParseFile(system, Options{})
	assert.ErrorIs(t, err, ErrWrongHiveType)

	bare := testutil.WriteHive(t, "NTUSER.DAT", hivegen.Options{
		FileName: testutil.NTUserFileName,
		Root:     hivegen.Key{Name: "ROOT"},
	})
	_, _, err = ParseFile(bare, Options{})
	assert.True(t, IsNotFound(err))

	_, _, err = ParseFile(bare+".missing", Options{})
	assert.Error(t, err)
}
