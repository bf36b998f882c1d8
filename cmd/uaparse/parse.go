package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coquinn7/UserAssist/internal/logging"
	"github.com/coquinn7/UserAssist/internal/output"
	"github.com/coquinn7/UserAssist/internal/userassist"
	"github.com/coquinn7/UserAssist/pkg/types"
)

// runParse decodes the hive and writes the report. Only an unusable input
// file is an error; a hive of the wrong kind or without UserAssist data ends
// the run quietly without output.
func runParse() error {
	if err := checkHiveFile(hivePath); err != nil {
		return err
	}
	folders, err := settings.Folders()
	if err != nil {
		return err
	}
	formatList, err := output.ParseFormats(settings.Formats)
	if err != nil {
		return err
	}

	rep, meta, err := userassist.ParseFile(hivePath, userassist.Options{
		SkipTypeCheck: settings.SkipTypeCheck,
		Tolerant:      settings.Tolerant,
		Folders:       folders,
	})
	switch {
	case errors.Is(err, types.ErrNotHive):
		return fmt.Errorf("wrong file type, regf signature not found: %s", hivePath)
	case errors.Is(err, userassist.ErrWrongHiveType):
		logging.Warn("hive type check failed", "file", hivePath, "error", err)
		printInfo("%s is not an NTUSER.DAT file\n", filepath.Base(hivePath))
		return nil
	case userassist.IsNotFound(err):
		logging.Info("UserAssist key not found", "file", hivePath, "error", err)
		printInfo("UserAssist key not found\n")
		return nil
	case err != nil:
		return fmt.Errorf("parse %s: %w", hivePath, err)
	}

	printInfo("Found %s (%d GUID keys): %s\n", userassist.KeyPath, meta.GUIDCount, userassist.Describe(rep))
	paths, err := output.Write(rep, meta, output.Options{
		Dir:          settings.OutDir,
		Formats:      formatList,
		AgeRecipient: settings.AgeRecipient,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		printInfo("Output written to %s\n", p)
	}
	return nil
}

func checkHiveFile(path string) error {
	if path == "" {
		return errors.New("a hive file is required (-f/--file)")
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("invalid file path: %s is not a regular file", path)
	}
	return nil
}
