package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coquinn7/UserAssist/internal/config"
	"github.com/coquinn7/UserAssist/internal/logging"
)

var (
	// Global flags
	hivePath      string
	configPath    string
	logLevel      string
	logFormat     string
	logDir        string
	skipTypeCheck bool
	tolerant      bool
	quiet         bool
	jsonOut       bool

	// Parse flags
	outDir       string
	formats      []string
	ageRecipient string
)

// settings is the effective configuration: defaults, then the config file,
// then UAPARSE_* variables, then flags.
var settings = config.Default()

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "uaparse",
	Short: "Extract UserAssist execution history from an NTUSER.DAT hive",
	Long: `uaparse reads the UserAssist keys of an offline NTUSER.DAT registry hive,
decodes the per-program run counts, focus counts, focus times and last
execution times, resolves known folder GUIDs and writes the result to
<out>/UserAssist.csv (and optionally JSON or SQLite).`,
	Example: `  uaparse -f NTUSER.DAT -o ./out
  uaparse -f NTUSER.DAT -o ./out --format csv,json,sqlite
  uaparse -f NTUSER.DAT -o ./out --age-recipient age1...`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse()
	},
}

func init() {
	rootCmd.Version = buildVersion().Version
	bindFlags(rootCmd)
}

// bindFlags registers the global and parse flags on cmd.
func bindFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&hivePath, "file", "f", "", "Path to the NTUSER.DAT hive")
	pf.StringVar(&configPath, "config", "", "Config file (TOML, YAML or JSON)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory instead of stderr")
	pf.BoolVar(&skipTypeCheck, "skip-type-check", false, "Process hives whose header does not name them ntuser.dat")
	pf.BoolVar(&tolerant, "tolerant", false, "Accept truncated value data instead of skipping the value")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format (info)")

	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", ".", "Directory to write output to (created if missing)")
	f.StringSliceVar(&formats, "format", []string{"csv"}, "Output formats: csv, json, sqlite")
	f.StringVar(&ageRecipient, "age-recipient", "", "Encrypt every output file to this age X25519 public key")
}

// setup resolves settings and installs the logger.
func setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnvOverrides()
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("out") {
		cfg.OutDir = outDir
	}
	if changed("format") {
		cfg.Formats = formats
	}
	if changed("age-recipient") {
		cfg.AgeRecipient = ageRecipient
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if changed("log-dir") {
		cfg.LogDir = logDir
	}
	if changed("skip-type-check") {
		cfg.SkipTypeCheck = skipTypeCheck
	}
	if changed("tolerant") {
		cfg.Tolerant = tolerant
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		LogDir: cfg.LogDir,
	})
	if err != nil {
		return err
	}
	closeLog = closer
	settings = cfg
	return nil
}

func execute() {
	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
