package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rubiojr/adminhub/pkg/prefs"
)

func TestValidateSites(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"valid", `[{"GroupName": "Web", "Sites": [{"ID": "a", "Name": "A"}]}]`, ""},
		{"missing name", `[{"GroupName": "Web", "Sites": [{"ID": "a"}]}]`, "is not valid"},
		{"duplicate", `[{"GroupName": "Web", "Sites": [{"ID": "a", "Name": "A"}, {"ID": "a", "Name": "B"}]}]`, "is not valid"},
		{"not json", `{`, "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			err := validateSites(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateSites() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("validateSites() = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if err := validateSites(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestSetPreference(t *testing.T) {
	p := prefs.New(prefs.NewMemoryStore())

	if err := setPreference(p, "Bogus", "1"); err == nil {
		t.Fatal("unknown keys must be rejected")
	}
	if err := setPreference(p, prefs.KeyView, prefs.ViewList); err != nil {
		t.Fatal(err)
	}
	if p.View() != prefs.ViewList {
		t.Fatalf("View() = %q", p.View())
	}
	if err := setPreference(p, prefs.KeyPinnedSites, " b, a,,b "); err != nil {
		t.Fatal(err)
	}
	if got := p.PinnedSites(); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("PinnedSites() = %v", got)
	}
}

func TestFormatPreferencesMarksDefaults(t *testing.T) {
	p := prefs.New(prefs.NewMemoryStore())
	p.SetSortBy("data-sitename")

	out := formatPreferences(p)
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, prefs.KeySortBy):
			if !strings.Contains(line, "data-sitename") || strings.Contains(line, "(default)") {
				t.Errorf("SortBy line = %q", line)
			}
		case strings.Contains(line, prefs.KeyColourTheme):
			if !strings.Contains(line, "(default)") {
				t.Errorf("ColourTheme line = %q", line)
			}
		}
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := initConfig(path, false); err != nil {
		t.Fatalf("initConfig() = %v", err)
	}
	if err := initConfig(path, false); err == nil {
		t.Fatal("second init without --force must fail")
	}
	if err := initConfig(path, true); err != nil {
		t.Fatalf("initConfig(force) = %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.Source == "" {
		t.Fatal("template config has no source")
	}
}
