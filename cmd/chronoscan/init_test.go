package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/chronoscan/internal/config"
)

// TestNewInitCmd tests the init command flags.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.Shorthand != "o" || flag.DefValue != ".chronoscan" {
		t.Errorf("unexpected output flag %s/%s", flag.Shorthand, flag.DefValue)
	}

	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected force flag")
	}
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "sub", ".chronoscan")

		var out bytes.Buffer
		cmd := NewInitCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"-o", outputPath})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(out.String(), outputPath) {
			t.Errorf("expected output to mention %s, got %q", outputPath, out.String())
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatalf("expected config file: %v", err)
		}
		if info.Mode().Perm()&0o077 != 0 {
			t.Errorf("expected owner-only permissions, got %v", info.Mode().Perm())
		}

		cf, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("template does not parse: %v", err)
		}
		cfg := config.NewConfig()
		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("template does not apply: %v", err)
		}
		if cfg.Timeout != config.DefaultTimeout || cfg.Format != config.DefaultFormat {
			t.Errorf("template should carry defaults, got timeout=%v format=%q", cfg.Timeout, cfg.Format)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".chronoscan")
		if err := os.WriteFile(outputPath, []byte("format: json\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for existing file")
		}

		cmd = NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath, "-f"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error with force: %v", err)
		}

		data, err := os.ReadFile(outputPath) //nolint:gosec // test path
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "chronoscan configuration file") {
			t.Error("expected template content after overwrite")
		}
	})
}
