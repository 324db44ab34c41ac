package cmd

import (
	"fmt"

	"github.com/rubiojr/adminhub/pkg/config"
	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/fetch"
	"github.com/rubiojr/adminhub/pkg/layout"
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/prefs"
)

// loadConfig loads and validates the configuration file.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// newTransport returns an HTTP transport for URL sources and a directory
// transport otherwise.
func newTransport(cfg *config.Config) (fetch.Transport, error) {
	if cfg.SourceIsURL() {
		return fetch.NewHTTPTransport(cfg.Source, cfg.FetchTimeout.Duration)
	}
	return fetch.NewDirTransport(cfg.Source)
}

// openPreferences opens the preferences database. When it cannot be
// opened the dashboard runs with defaults and nothing is persisted.
func openPreferences(cfg *config.Config) (*prefs.Preferences, func()) {
	store, err := prefs.OpenSQLite(cfg.PreferencesDB)
	if err != nil {
		log.ForService("prefs").Warnf("preferences unavailable, using defaults: %v", err)
		return prefs.New(prefs.Unavailable{}), func() {}
	}
	closer := func() {
		if err := store.Close(); err != nil {
			log.ForService("prefs").Warnf("closing preferences: %v", err)
		}
	}
	return prefs.New(store), closer
}

// seedAutoUpdate applies the configured auto_update value when the
// preference has never been stored.
func seedAutoUpdate(p *prefs.Preferences, cfg *config.Config) {
	if _, ok := p.Store().Get(prefs.KeyAutoDataUpdate); !ok {
		p.SetAutoDataUpdate(cfg.AutoUpdateEnabled())
	}
}

func newSession(cfg *config.Config, p *prefs.Preferences) (*dashboard.Session, error) {
	tr, err := newTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}
	est := layout.DefaultEstimator()
	est.CharWidth = cfg.Layout.CharWidth
	est.CellPadding = cfg.Layout.CellPadding

	return dashboard.New(dashboard.Options{
		Fetcher:       fetch.New(tr, cfg.CacheSuffix),
		Prefs:         p,
		Estimator:     est,
		TableMargins:  cfg.Layout.TableMargins,
		ViewportWidth: cfg.Layout.ViewportWidth,
	}), nil
}
