package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/dialog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exbatch.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Options.TableName != "ExpensesTable" {
		t.Errorf("Expected ExpensesTable, got %s", cfg.Options.TableName)
	}
	if cfg.Options.MinAPIVersion != "1.7" {
		t.Errorf("Expected min version 1.7, got %s", cfg.Options.MinAPIVersion)
	}
	if cfg.Options.Dialog.Element != "user-name" {
		t.Errorf("Expected element user-name, got %s", cfg.Options.Dialog.Element)
	}
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
sheet = " Expenses "

[dialog]
addr = "127.0.0.1:0"
height = 50
overlap = "Replace"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug, got %s", cfg.LogLevel)
	}
	if cfg.Options.Sheet != "Expenses" {
		t.Errorf("Expected trimmed sheet Expenses, got %q", cfg.Options.Sheet)
	}
	if cfg.DialogAddr != "127.0.0.1:0" {
		t.Errorf("Expected dialog addr 127.0.0.1:0, got %s", cfg.DialogAddr)
	}
	if cfg.Options.Dialog.Display.Height != 50 {
		t.Errorf("Expected height 50, got %d", cfg.Options.Dialog.Display.Height)
	}
	// Undefined keys keep their defaults.
	if cfg.Options.Dialog.Display.Width != 25 {
		t.Errorf("Expected default width 25, got %d", cfg.Options.Dialog.Display.Width)
	}
	if cfg.Options.TableName != "ExpensesTable" {
		t.Errorf("Expected default table name, got %s", cfg.Options.TableName)
	}
	if cfg.Options.Dialog.Overlap != dialog.OverlapReplace {
		t.Errorf("Expected replace policy, got %s", cfg.Options.Dialog.Overlap)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", `colour = "red"`, "unknown key"},
		{"bad toml", `sheet = `, "load config"},
		{"empty table", `table_name = ""`, "table_name"},
		{"bad size", "[dialog]\nwidth = 0", "out of range"},
		{"bad policy", "[dialog]\noverlap = \"queue\"", "overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
