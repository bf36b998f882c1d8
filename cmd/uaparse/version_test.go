package main

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coquinn7/UserAssist/internal/config"
)

func TestBuildVersionPrefersLinkerValues(t *testing.T) {
	prev := [3]string{version, commit, date}
	t.Cleanup(func() { version, commit, date = prev[0], prev[1], prev[2] })
	version, commit, date = "v1.2.0", "abc1234", "2024-05-01"

	v := buildVersion()
	assert.Equal(t, "v1.2.0", v.Version)
	assert.Equal(t, "abc1234", v.Commit)
	assert.Equal(t, "2024-05-01", v.Built)
	assert.Equal(t, runtime.Version(), v.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, v.Platform)
}

func TestBuildVersionFallsBack(t *testing.T) {
	prev := [3]string{version, commit, date}
	t.Cleanup(func() { version, commit, date = prev[0], prev[1], prev[2] })
	version, commit, date = "", "", ""

	v := buildVersion()
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Commit)
	assert.NotEmpty(t, v.Built)
}

func TestRunVersion(t *testing.T) {
	useSettings(t, "", config.Default())

	out, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assertContains(t, out, []string{"uaparse ", "commit: ", "go: " + runtime.Version()})

	jsonOut = true
	out, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	var v versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, runtime.Version(), v.GoVersion)
}
