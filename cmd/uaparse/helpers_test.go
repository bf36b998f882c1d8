package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/coquinn7/UserAssist/internal/config"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// useSettings installs cfg and hive as the effective settings for one test.
func useSettings(t *testing.T, hive string, cfg *config.Config) {
	t.Helper()
	prevHive, prevSettings, prevJSON, prevQuiet := hivePath, settings, jsonOut, quiet
	hivePath, settings = hive, cfg
	t.Cleanup(func() {
		hivePath, settings, jsonOut, quiet = prevHive, prevSettings, prevJSON, prevQuiet
	})
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
