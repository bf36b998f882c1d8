package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/coquinn7/UserAssist/internal/reader"
	"github.com/coquinn7/UserAssist/internal/userassist"
	"github.com/coquinn7/UserAssist/pkg/types"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report hive header metadata and UserAssist key layout",
		Long: `The info command validates a registry hive header and reports its embedded
file name, detected hive type, size and the GUID keys found under UserAssist
together with the number of Count values each holds.

Example:
  uaparse info -f NTUSER.DAT
  uaparse info -f NTUSER.DAT --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

type guidSummary struct {
	GUID      string    `json:"guid"`
	Values    int       `json:"values"`
	NonBinary int       `json:"non_binary,omitempty"`
	LastWrite time.Time `json:"last_write"`
}

type hiveSummary struct {
	File          string        `json:"file"`
	SizeBytes     int64         `json:"size_bytes"`
	EmbeddedName  string        `json:"embedded_name"`
	Type          string        `json:"type"`
	Version       string        `json:"version"`
	LastWrite     time.Time     `json:"last_write"`
	HBINDataBytes uint32        `json:"hbin_data_bytes"`
	UserAssist    bool          `json:"userassist"`
	GUIDs         []guidSummary `json:"guids,omitempty"`
}

func runInfo() error {
	if err := checkHiveFile(hivePath); err != nil {
		return err
	}
	st, err := os.Stat(hivePath)
	if err != nil {
		return err
	}
	r, err := reader.Open(hivePath, types.OpenOptions{Tolerant: settings.Tolerant})
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer r.Close()

	info := r.Info()
	sum := hiveSummary{
		File:          hivePath,
		SizeBytes:     st.Size(),
		EmbeddedName:  info.FileName,
		Type:          string(info.Kind),
		Version:       fmt.Sprintf("%d.%d", info.MajorVersion, info.MinorVersion),
		LastWrite:     info.LastWrite,
		HBINDataBytes: info.HiveBinsDataSize,
	}
	sum.GUIDs, sum.UserAssist = userAssistLayout(r)

	if jsonOut {
		return printJSON(sum)
	}

	printInfo("\nHive Information:\n")
	printInfo("  File: %s\n", sum.File)
	printInfo("  Size: %s\n", humanize.IBytes(uint64(sum.SizeBytes)))
	printInfo("  Embedded name: %s\n", sum.EmbeddedName)
	printInfo("  Type: %s\n", sum.Type)
	printInfo("  Format version: %s\n", sum.Version)
	printInfo("  Last write: %s (%s)\n", sum.LastWrite.Format(userassist.TimestampLayout), humanize.Time(sum.LastWrite))
	printInfo("  Hive bin data: %s\n", humanize.IBytes(uint64(sum.HBINDataBytes)))

	printInfo("\nUserAssist:\n")
	if !sum.UserAssist {
		printInfo("  key not found\n")
		return nil
	}
	for _, g := range sum.GUIDs {
		printInfo("  %s  %s values  last write %s\n",
			g.GUID, humanize.Comma(int64(g.Values)), g.LastWrite.Format(userassist.TimestampLayout))
		if g.NonBinary > 0 {
			printInfo("    warning: %d Count values are not REG_BINARY\n", g.NonBinary)
		}
	}
	return nil
}

// userAssistLayout lists the GUID keys under UserAssist with their Count
// value totals and last write times. A GUID without a Count key reports zero values.
// Count values that are not REG_BINARY are tallied separately.
func userAssistLayout(r *reader.Reader) ([]guidSummary, bool) {
	ua, err := r.Find(userassist.KeyPath)
	if err != nil {
		return nil, false
	}
	guids, err := r.Subkeys(ua)
	if err != nil {
		return nil, true
	}
	out := make([]guidSummary, 0, len(guids))
	for _, g := range guids {
		name, err := r.KeyName(g)
		if err != nil {
			continue
		}
		s := guidSummary{GUID: name}
		if lw, err := r.KeyLastWrite(g); err == nil {
			s.LastWrite = lw
		}
		if count, err := r.Lookup(g, "Count"); err == nil {
			if vals, err := r.Values(count); err == nil {
				s.Values = len(vals)
				for _, v := range vals {
					if typ, err := r.ValueType(v); err == nil && typ != types.REG_BINARY {
						s.NonBinary++
					}
				}
			}
		}
		out = append(out, s)
	}
	return out, true
}
