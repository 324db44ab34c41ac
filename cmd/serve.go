package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/adminhub/pkg/api"
	"github.com/rubiojr/adminhub/pkg/config"
	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/fetch"
	"github.com/rubiojr/adminhub/pkg/layout"
	"github.com/rubiojr/adminhub/pkg/log"
	"github.com/rubiojr/adminhub/pkg/realtime"
	"github.com/urfave/cli/v3"
)

// sourceSettle is how long a burst of source directory events must be
// quiet before the dashboard re-reads it.
const sourceSettle = 500 * time.Millisecond

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Poll the configuration source and serve the dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides the config file)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

// serve runs the clock tick loop and the HTTP server until interrupted.
func serve(ctx context.Context, configPath, listen string) error {
	logger := log.ForService("serve")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	p, closePrefs := openPreferences(cfg)
	defer closePrefs()
	seedAutoUpdate(p, cfg)

	session, err := newSession(cfg, p)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(32)
	apiServer := api.NewServer(session)
	apiServer.SetHub(hub)
	apiServer.SetDebounce(cfg.Layout.ResizeDebounce.Duration, cfg.Layout.SearchDebounce.Duration)

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	addr := cfg.Listen
	if listen != "" {
		addr = listen
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           api.CorsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	res := session.Refresh(runCtx)
	logger.Infof("initial cycle %s: sites=%s statistics=%s rss=%s",
		res.ID, res.Sites.Outcome, res.Statistics.Outcome, res.RSS.Outcome)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Serving dashboard on http://%s (source %s)", addr, cfg.Source)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ticker := time.NewTicker(cfg.TickInterval.Duration)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	w := newServeWatcher(logger, configPath, cfg)
	defer w.close()

	sourceDebounce := layout.NewDebouncer(sourceSettle)
	defer sourceDebounce.Stop()

	currentConfig := cfg
	reload := func(reason string) {
		newCfg, err := reloadConfiguration(runCtx, configPath, currentConfig, ticker, apiServer, session)
		if err != nil {
			logger.Errorf("Failed to reload configuration (%s): %v", reason, err)
			return
		}
		currentConfig = newCfg
		logger.Infof("Configuration reloaded (%s)", reason)
	}

	for {
		select {
		case <-runCtx.Done():
			return shutdown(server, logger)
		case err := <-serverErr:
			return fmt.Errorf("http server: %w", err)
		case <-ticker.C:
			session.Tick(runCtx)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("Received SIGHUP, reloading configuration...")
				reload("SIGHUP")
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				return shutdown(server, logger)
			}
		case event, ok := <-w.events():
			if !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if filepath.Clean(event.Name) == filepath.Clean(configPath) {
				logger.Infof("Config file changed: %s (event: %s)", event.Name, event.Op.String())
				if !w.rewatchConfig(event) {
					continue
				}
				reload("file change")
				continue
			}
			static := isStaticDocument(event.Name)
			logger.Debugf("source changed: %s (event: %s)", event.Name, event.Op.String())
			sourceDebounce.Trigger(func() {
				if static {
					session.ReloadStatic(runCtx)
					return
				}
				session.Refresh(runCtx)
			})
		case err, ok := <-w.errors():
			if !ok {
				continue
			}
			logger.Warnf("File watcher error: %v", err)
		}
	}
}

func shutdown(server *http.Server, logger *log.Logger) error {
	logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// reloadConfiguration applies the settings that can change at runtime and
// rebuilds the dashboard from scratch. Source, listen address and cache
// suffix changes need a restart.
func reloadConfiguration(ctx context.Context, configPath string, old *config.Config, ticker *time.Ticker, apiServer *api.Server, session *dashboard.Session) (*config.Config, error) {
	newCfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := log.ForService("serve")
	if newCfg.Source != old.Source || newCfg.Listen != old.Listen || newCfg.CacheSuffix != old.CacheSuffix {
		logger.Warnf("source, listen and cache_suffix changes take effect after a restart")
	}
	if newCfg.TickInterval != old.TickInterval {
		ticker.Reset(newCfg.TickInterval.Duration)
		logger.Infof("Tick interval is now %s", newCfg.TickInterval)
	}
	apiServer.SetDebounce(newCfg.Layout.ResizeDebounce.Duration, newCfg.Layout.SearchDebounce.Duration)
	session.ReloadStatic(ctx)
	return newCfg, nil
}

// isStaticDocument reports whether a changed file is one of the cacheable
// documents, which are only read when static features are (re)loaded.
func isStaticDocument(name string) bool {
	for _, r := range []fetch.Resource{fetch.Branding, fetch.Hyperlinks, fetch.Clocks} {
		if filepath.Base(name) == filepath.Base(r.Path) {
			return true
		}
	}
	return false
}

// serveWatcher watches the config file and, for directory sources, the
// source tree. A nil watcher yields nil channels, which never fire.
type serveWatcher struct {
	w          *fsnotify.Watcher
	logger     *log.Logger
	configPath string
}

func newServeWatcher(logger *log.Logger, configPath string, cfg *config.Config) *serveWatcher {
	sw := &serveWatcher{logger: logger, configPath: configPath}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create file watcher: %v", err)
		return sw
	}
	sw.w = w

	if err := w.Add(configPath); err != nil {
		logger.Warnf("failed to watch config file %s: %v", configPath, err)
	} else {
		logger.Infof("Watching config file for changes: %s", configPath)
	}

	if !cfg.SourceIsURL() {
		for _, dir := range []string{cfg.Source, filepath.Join(cfg.Source, "configuration")} {
			if err := w.Add(dir); err != nil {
				logger.Warnf("failed to watch source directory %s: %v", dir, err)
				continue
			}
			logger.Infof("Watching source directory: %s", dir)
		}
	}
	return sw
}

func (sw *serveWatcher) events() <-chan fsnotify.Event {
	if sw.w == nil {
		return nil
	}
	return sw.w.Events
}

func (sw *serveWatcher) errors() <-chan error {
	if sw.w == nil {
		return nil
	}
	return sw.w.Errors
}

// rewatchConfig handles editors that replace the file atomically. It
// reports whether the config file is there to be reloaded.
func (sw *serveWatcher) rewatchConfig(event fsnotify.Event) bool {
	if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
		// Small delay to ensure the new file is fully written
		time.Sleep(200 * time.Millisecond)

		if _, err := os.Stat(sw.configPath); os.IsNotExist(err) {
			sw.logger.Warnf("Config file was removed and not replaced, skipping reload")
			return false
		}
		if err := sw.w.Add(sw.configPath); err != nil {
			sw.logger.Warnf("failed to re-add config file to watcher after rename/remove: %v", err)
		}
		return true
	}

	// Add a small delay to ensure file write is complete
	time.Sleep(100 * time.Millisecond)
	return true
}

func (sw *serveWatcher) close() {
	if sw.w == nil {
		return
	}
	if err := sw.w.Close(); err != nil {
		sw.logger.Warnf("failed to close file watcher: %v", err)
	}
}
