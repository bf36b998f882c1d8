package userassist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coquinn7/UserAssist/internal/knownfolders"
)

func TestRot13(t *testing.T) {
	assert.Equal(t, `P:\Jvaqbjf\flfgrz32\pzq.rkr`, Rot13(`C:\Windows\system32\cmd.exe`))
	assert.Equal(t, "0123 {}-_.\\ äö", Rot13("0123 {}-_.\\ äö"))
	assert.Equal(t, "NnZz", Rot13("AaMm"))

	for _, s := range []string{"", "UEME_CTLSESSION", `{6D809377-6AF0-444B-8957-A3773F02200E}\7-Zip\7zFM.exe`, "Ünïcödé"} {
		assert.Equal(t, s, Rot13(Rot13(s)), "round trip %q", s)
	}
}

func TestResolve(t *testing.T) {
	res := NewResolver(knownfolders.Default())

	tests := []struct {
		name  string
		plain string
		want  string
	}{
		{
			name:  "known folder prefix",
			plain: `{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\cmd.exe`,
			want:  `System\cmd.exe`,
		},
		{
			name:  "known folder alone",
			plain: `{F38BF404-1D43-42F2-9305-67DE0B28FC23}`,
			want:  `Windows`,
		},
		{
			name:  "only the leading segment",
			plain: `{6D809377-6AF0-444B-8957-A3773F02200E}\{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\x.exe`,
			want:  `ProgramFilesX64\{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\x.exe`,
		},
		{
			name:  "no known folder",
			plain: `C:\Tools\procmon.exe`,
			want:  `C:\Tools\procmon.exe`,
		},
		{
			name:  "lower case GUID is not a match",
			plain: `{1ac14e77-02e7-4e5d-b744-2eb1ae5198b7}\cmd.exe`,
			want:  `{1ac14e77-02e7-4e5d-b744-2eb1ae5198b7}\cmd.exe`,
		},
		{
			name:  "GUID not in table",
			plain: `{00000000-0000-0000-0000-000000000000}\a.exe`,
			want:  `{00000000-0000-0000-0000-000000000000}\a.exe`,
		},
		{
			name:  "app id",
			plain: `Microsoft.Windows.Explorer`,
			want:  `Microsoft.Windows.Explorer`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, res.Resolve(Rot13(tt.plain)))
		})
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	res := NewResolver(knownfolders.Default())
	for _, p := range []string{
		`System\cmd.exe`,
		`C:\Tools\procmon.exe`,
		`{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\cmd.exe`,
	} {
		once := res.Substitute(p)
		assert.Equal(t, once, res.Substitute(once), p)
	}
}

func TestResolveWithMergedFolders(t *testing.T) {
	tbl, err := knownfolders.Default().Merge(map[string]string{
		"{0F214138-B1D3-4A90-BBA9-27CBC0C5389A}": "SyncSetup",
	})
	if err != nil {
		t.Fatal(err)
	}
	res := NewResolver(tbl)
	assert.Equal(t, `SyncSetup\run.exe`, res.Resolve(Rot13(`{0F214138-B1D3-4A90-BBA9-27CBC0C5389A}\run.exe`)))
}
