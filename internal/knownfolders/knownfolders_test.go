package knownfolders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	tbl := Default()

	name, ok := tbl.Lookup("{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}")
	require.True(t, ok)
	assert.Equal(t, "System", name)

	// Exact match only.
	_, ok = tbl.Lookup("{1ac14e77-02e7-4e5d-b744-2eb1ae5198b7}")
	assert.False(t, ok)
	_, ok = tbl.Lookup("1AC14E77-02E7-4E5D-B744-2EB1AE5198B7")
	assert.False(t, ok)
}

func TestBuiltinKeysAreCanonical(t *testing.T) {
	for guid := range builtin {
		norm, err := Normalize(guid)
		require.NoError(t, err, guid)
		assert.Equal(t, guid, norm)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged, err := base.Merge(map[string]string{
		"0f214138-b1d3-4a90-bba9-27cbc0c5389a":   "SyncSetup",
		"{F38BF404-1D43-42F2-9305-67DE0B28FC23}": "NotWindows",
	})
	require.NoError(t, err)

	name, ok := merged.Lookup("{0F214138-B1D3-4A90-BBA9-27CBC0C5389A}")
	require.True(t, ok)
	assert.Equal(t, "SyncSetup", name)

	name, _ = merged.Lookup("{F38BF404-1D43-42F2-9305-67DE0B28FC23}")
	assert.Equal(t, "Windows", name)

	assert.Equal(t, base.Len()+1, merged.Len())
	_, ok = base.Lookup("{0F214138-B1D3-4A90-BBA9-27CBC0C5389A}")
	assert.False(t, ok, "merge must not mutate the receiver")
}

func TestMergeRejectsBadInput(t *testing.T) {
	_, err := Default().Merge(map[string]string{"not-a-guid": "x"})
	assert.Error(t, err)

	_, err = Default().Merge(map[string]string{"0f214138-b1d3-4a90-bba9-27cbc0c5389a": " "})
	assert.Error(t, err)
}
