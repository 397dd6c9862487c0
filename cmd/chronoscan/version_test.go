package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestReadBuildInfo tests that every field has a value.
func TestReadBuildInfo(t *testing.T) {
	t.Parallel()

	info := readBuildInfo()
	if info.Version == "" {
		t.Error("expected non-empty version")
	}
	if info.Commit == "" {
		t.Error("expected non-empty commit")
	}
	if info.Date == "" {
		t.Error("expected non-empty date")
	}
	if len(info.Commit) > 7 && info.Commit != commit {
		t.Errorf("expected short commit hash, got %q", info.Commit)
	}
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"chronoscan version " + getVersion(), "commit:", "built:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
