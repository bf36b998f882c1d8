package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCmd binds fresh flags to the package flag variables and parses args.
func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	prev := settings
	t.Cleanup(func() {
		settings = prev
		bindFlags(&cobra.Command{Use: "reset"})
	})
	cmd := &cobra.Command{Use: "uaparse"}
	bindFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestSetupFlagsOverrideConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "uaparse.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
out_dir = "/from/config"
formats = ["json"]
log_level = "warn"
`), 0o600))

	cmd := newTestCmd(t, "--config", cfgFile, "-o", "/from/flag", "--skip-type-check")
	require.NoError(t, setup(cmd))

	assert.Equal(t, "/from/flag", settings.OutDir)
	assert.Equal(t, []string{"json"}, settings.Formats)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.True(t, settings.SkipTypeCheck)
}

func TestSetupDefaults(t *testing.T) {
	cmd := newTestCmd(t)
	require.NoError(t, setup(cmd))
	assert.Equal(t, ".", settings.OutDir)
	assert.Equal(t, []string{"csv"}, settings.Formats)
}

func TestSetupRejectsBadFlags(t *testing.T) {
	cmd := newTestCmd(t, "--format", "csv,xlsx")
	assert.Error(t, setup(cmd))

	cmd = newTestCmd(t, "--age-recipient", "nope")
	assert.Error(t, setup(cmd))

	cmd = newTestCmd(t, "--log-format", "xml")
	assert.Error(t, setup(cmd))
}
