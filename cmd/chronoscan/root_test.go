package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "chronoscan" {
			t.Errorf("expected use 'chronoscan', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has scan flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{"domain", "d", ""},
			{"output", "o", ""},
			{"list", "l", ""},
			{"batch", "b", "4"},
			{"timeout", "t", "45s"},
			{"retries", "r", "0"},
			{"endpoint", "e", "http://web.archive.org/cdx/search/cdx"},
			{"proxy", "p", ""},
			{"user-agent", "u", ""},
			{"format", "f", "text"},
			{"config", "c", ""},
			{"quiet", "q", "false"},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}

		for _, name := range []string{"retry-backoff", "no-db", "db-dir", "json-log"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"init": false, "history [domain]": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected %q subcommand", use)
			}
		}
	})
}

// TestRootCmdWithoutTarget tests that running without a target prints usage
// and fails.
func TestRootCmdWithoutTarget(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if !errors.Is(err, errNoDomain) {
		t.Fatalf("expected errNoDomain, got %v", err)
	}
	if !strings.Contains(stderr.String(), "--domain") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
}

// TestRootCmdRejectsPositionalArgs tests that targets must be given by flag.
func TestRootCmdRejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"example.com"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for positional argument")
	}
}

// TestFormatFlagValues tests the --format completion values.
func TestFormatFlagValues(t *testing.T) {
	t.Parallel()

	got := strings.Join(formatFlagValues(), ",")
	if got != "text,json,markdown,xlsx" {
		t.Errorf("unexpected format values %q", got)
	}
}
