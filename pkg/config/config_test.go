package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Listen = %q, want %q", cfg.Listen, DefaultListen)
	}
	if cfg.TickInterval.Duration != DefaultTickInterval {
		t.Errorf("TickInterval = %v", cfg.TickInterval)
	}
	if cfg.CacheSuffix != "v2026.04" {
		t.Errorf("CacheSuffix = %q", cfg.CacheSuffix)
	}
	if !cfg.AutoUpdateEnabled() {
		t.Error("auto update should default to enabled")
	}
	if cfg.Layout.ResizeDebounce.Duration != 250*time.Millisecond {
		t.Errorf("ResizeDebounce = %v", cfg.Layout.ResizeDebounce)
	}
	if !strings.HasSuffix(cfg.PreferencesDB, filepath.Join("adminhub", "preferences.db")) {
		t.Errorf("PreferencesDB = %q", cfg.PreferencesDB)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
source = "https://hub.example.com/configuration"
storage_dir = "` + filepath.ToSlash(dir) + `"
tick_interval = "30s"
auto_update = false

[layout]
table_margins = 40
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.SourceIsURL() {
		t.Error("expected URL source")
	}
	if cfg.TickInterval.Duration != 30*time.Second {
		t.Errorf("TickInterval = %v", cfg.TickInterval)
	}
	if cfg.AutoUpdateEnabled() {
		t.Error("auto_update = false not honoured")
	}
	if cfg.Layout.TableMargins != 40 {
		t.Errorf("TableMargins = %v", cfg.Layout.TableMargins)
	}
	if cfg.Layout.CharWidth != 8 {
		t.Errorf("CharWidth default not applied: %v", cfg.Layout.CharWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sites.json")
	if err := os.WriteFile(file, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"empty", "", true},
		{"directory", dir, false},
		{"file", file, true},
		{"missing", filepath.Join(dir, "nope"), true},
		{"url", "http://localhost:9000/configuration", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Source: tt.source}
			cfg.applyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{StorageDir: dir}
	path := filepath.Join(dir, "nested", "config.toml")
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), dir) {
		t.Fatalf("storage dir not substituted:\n%s", data)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not load back: %v", err)
	}
	if loaded.StorageDir != dir {
		t.Errorf("StorageDir = %q, want %q", loaded.StorageDir, dir)
	}
}
