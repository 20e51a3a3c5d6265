// Package app implements the application layer for precache.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"go.trai.ch/precache/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watch loop
	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/precache/internal/engine/lifecycle"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	storage      ports.CacheStorage
	worker       *lifecycle.Worker
	newWatcher   ports.WatcherFactory
	logger       ports.Logger

	listen         func(network, address string) (net.Listener, error)
	debounceWindow time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	storage ports.CacheStorage,
	worker *lifecycle.Worker,
	newWatcher ports.WatcherFactory,
	logger ports.Logger,
) *App {
	return &App{
		configLoader:   loader,
		storage:        storage,
		worker:         worker,
		newWatcher:     newWatcher,
		logger:         logger,
		listen:         net.Listen,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithListener replaces the function used to open the HTTP listener.
func WithListener(listen func(network, address string) (net.Listener, error)) func(*App) {
	return func(a *App) {
		a.listen = listen
	}
}

// WithDebounceWindow sets how long config file events are coalesced before a reload.
func WithDebounceWindow(window time.Duration) func(*App) {
	return func(a *App) {
		a.debounceWindow = window
	}
}

// LoadConfig reads the config file at path, or searches the working
// directory and its parents when path is empty.
func (a *App) LoadConfig(path string) (*domain.Config, error) {
	if path != "" {
		return a.configLoader.LoadFile(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get current working directory")
	}
	return a.configLoader.Load(cwd)
}

// Install pre-caches every asset of the configured manifest into its cache version.
func (a *App) Install(ctx context.Context, configPath string) error {
	cfg, err := a.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := a.worker.Install(ctx, cfg.Manifest); err != nil {
		return err
	}

	a.logger.Info("installed",
		"version", cfg.Manifest.Version,
		"assets", len(cfg.Manifest.Assets),
	)
	return nil
}

// Activate deletes every cache version other than the configured one.
func (a *App) Activate(ctx context.Context, configPath string) ([]string, error) {
	cfg, err := a.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	deleted, err := a.worker.Activate(ctx, cfg.Manifest.Version)
	for _, name := range deleted {
		a.logger.Info("deleted stale cache", "cache", name)
	}
	return deleted, err
}

// ServeOptions configures Serve.
type ServeOptions struct {
	// ConfigPath is the config file to load. Empty means search from the working directory.
	ConfigPath string
	// Listen overrides the listen address from the config file.
	Listen string
	// Watch re-registers the manifest whenever the config file changes.
	Watch bool
}

// Serve registers the configured manifest and answers HTTP requests through
// the worker until ctx is canceled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	addr := cfg.Listen
	if opts.Listen != "" {
		addr = opts.Listen
	}

	// An install failure leaves requests uncontrolled rather than stopping the server.
	if err := a.worker.Register(ctx, cfg.Manifest); err != nil {
		a.logger.Error(err)
	}

	ln, err := a.listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}

	srv := &http.Server{
		Handler:           a.worker,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	a.logger.Info("serving",
		"addr", ln.Addr().String(),
		"origin", cfg.Manifest.Origin,
		"version", cfg.Manifest.Version,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, domain.ErrServerFailed.Error())
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if opts.Watch {
		if cfg.Path == "" {
			a.logger.Warn("no config file to watch, serving the built-in manifest")
		} else {
			g.Go(func() error {
				return a.watch(gctx, cfg.Path)
			})
		}
	}

	return g.Wait()
}

// watch re-registers the manifest each time the config file at path settles
// after a change. It returns when ctx is canceled.
func (a *App) watch(ctx context.Context, path string) error {
	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, path); err != nil {
		_ = w.Stop()
		return err
	}

	reloads := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func([]string) {
		select {
		case reloads <- struct{}{}:
		default:
		}
	})

	go func() {
		for ev := range w.Events() {
			debouncer.Add(ev.Path)
		}
	}()

	a.logger.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			debouncer.Stop()
			return w.Stop()
		case <-reloads:
			a.reload(ctx, path)
		}
	}
}

func (a *App) reload(ctx context.Context, path string) {
	cfg, err := a.configLoader.LoadFile(path)
	if err != nil {
		a.logger.Error(err)
		return
	}
	if err := a.worker.Update(ctx, cfg.Manifest); err != nil {
		a.logger.Error(err)
	}
}

// CacheSummary describes one cache store.
type CacheSummary struct {
	Name    string
	Entries []string
	// Size is the total body size of the stored responses in bytes.
	Size int64
	// Current is true for the store named by the configured manifest version.
	Current bool
}

// Caches lists every cache store in creation order with the URLs it holds
// and their total size.
func (a *App) Caches(ctx context.Context, configPath string) ([]CacheSummary, error) {
	cfg, err := a.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	names, err := a.storage.Keys(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CacheSummary, 0, len(names))
	for _, name := range names {
		cache, err := a.storage.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		reqs, err := cache.Keys(ctx)
		if err != nil {
			return nil, err
		}

		summary := CacheSummary{
			Name:    name,
			Entries: make([]string, 0, len(reqs)),
			Current: name == cfg.Manifest.Version,
		}
		for _, req := range reqs {
			summary.Entries = append(summary.Entries, req.URL)
			resp, err := cache.Match(ctx, req)
			if err != nil {
				return nil, err
			}
			if resp != nil {
				summary.Size += int64(len(resp.Body))
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Clean deletes every cache store, including the current version.
func (a *App) Clean(ctx context.Context) ([]string, error) {
	names, err := a.storage.Keys(ctx)
	if err != nil {
		return nil, err
	}

	var deleted []string
	var errs []error
	for _, name := range names {
		ok, err := a.storage.Delete(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			deleted = append(deleted, name)
			a.logger.Info("deleted cache", "cache", name)
		}
	}

	return deleted, errors.Join(errs...)
}
