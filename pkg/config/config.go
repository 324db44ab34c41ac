package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultListen       = "localhost:8080"
	DefaultCacheSuffix  = "v2026.04"
	DefaultTickInterval = 10 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

type Config struct {
	// Source is where the configuration documents live: either a base URL
	// (http:// or https://) or a local directory.
	Source        string       `toml:"source"`
	Listen        string       `toml:"listen"`
	StorageDir    string       `toml:"storage_dir"`
	PreferencesDB string       `toml:"preferences_db"`
	TickInterval  Duration     `toml:"tick_interval"`
	FetchTimeout  Duration     `toml:"fetch_timeout"`
	CacheSuffix   string       `toml:"cache_suffix"`
	AutoUpdate    *bool        `toml:"auto_update,omitempty"`
	Layout        LayoutConfig `toml:"layout"`
}

// LayoutConfig holds the measurements the responsive table engine works with.
type LayoutConfig struct {
	ViewportWidth  float64  `toml:"viewport_width"`
	TableMargins   float64  `toml:"table_margins"`
	CharWidth      float64  `toml:"char_width"`
	CellPadding    float64  `toml:"cell_padding"`
	ResizeDebounce Duration `toml:"resize_debounce"`
	SearchDebounce Duration `toml:"search_debounce"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir}
	c.applyDefaults()
	return c, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.PreferencesDB == "" && c.StorageDir != "" {
		c.PreferencesDB = filepath.Join(c.StorageDir, "preferences.db")
	}
	if c.TickInterval.Duration == 0 {
		c.TickInterval = Duration{DefaultTickInterval}
	}
	if c.FetchTimeout.Duration == 0 {
		c.FetchTimeout = Duration{DefaultFetchTimeout}
	}
	if c.CacheSuffix == "" {
		c.CacheSuffix = DefaultCacheSuffix
	}
	if c.Layout.ViewportWidth == 0 {
		c.Layout.ViewportWidth = 1280
	}
	if c.Layout.TableMargins == 0 {
		c.Layout.TableMargins = 24
	}
	if c.Layout.CharWidth == 0 {
		c.Layout.CharWidth = 8
	}
	if c.Layout.CellPadding == 0 {
		c.Layout.CellPadding = 24
	}
	if c.Layout.ResizeDebounce.Duration == 0 {
		c.Layout.ResizeDebounce = Duration{250 * time.Millisecond}
	}
	if c.Layout.SearchDebounce.Duration == 0 {
		c.Layout.SearchDebounce = Duration{100 * time.Millisecond}
	}
}

// AutoUpdateEnabled is the configured seed for the AutoDataUpdate preference.
func (c *Config) AutoUpdateEnabled() bool {
	return c.AutoUpdate == nil || *c.AutoUpdate
}

// SourceIsURL reports whether Source points to an HTTP endpoint rather than
// a local directory.
func (c *Config) SourceIsURL() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source must be set to a base URL or a directory")
	}
	if !c.SourceIsURL() {
		info, err := os.Stat(c.Source)
		if err != nil {
			return fmt.Errorf("source directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source %s is not a directory", c.Source)
		}
	}
	if c.TickInterval.Duration < time.Second {
		return fmt.Errorf("tick_interval must be at least 1s, got %s", c.TickInterval)
	}
	return nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	// Replace the placeholder storage_dir with the actual path
	return strings.Replace(configTemplate, "/home/user/.local/share/adminhub", storageDir, 1), nil
}

// GetDefaultStorageDir returns the directory holding the preferences database
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "adminhub")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory for adminhub
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "adminhub")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
