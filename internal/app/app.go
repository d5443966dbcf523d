// Package app implements the application layer for shade.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/shade/internal/adapters/watcher"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/engine/runner"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       *runner.Runner
	logger       ports.Logger
	openStore    ports.StoreFactory
	watcher      ports.Watcher

	debounceWindow time.Duration

	// buildMu serializes runs that share the state file.
	buildMu sync.Mutex
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	r *runner.Runner,
	log ports.Logger,
	openStore ports.StoreFactory,
	w ports.Watcher,
) *App {
	return &App{
		configLoader:   loader,
		runner:         r,
		logger:         log,
		openStore:      openStore,
		watcher:        w,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithDebounceWindow overrides how long watch mode waits for events to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// ConfigPath selects the config file. Empty means discovery in the working directory.
	ConfigPath string
	// Force recompiles every source regardless of timestamps.
	Force bool
}

// Build brings every discovered shader output up to date.
//
// Per-item failures are reported as they happen and do not stop the batch; if any
// occurred, Build returns domain.ErrBuildFailed after the whole batch ran.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Force {
		cfg.Force = true
	}

	_, err = a.build(ctx, cfg, a.openStore(cfg.StateFile))
	return err
}

func (a *App) build(ctx context.Context, cfg *domain.Config, store ports.BuildRecordStore) (*domain.Summary, error) {
	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	summary, err := a.runner.Run(ctx, cfg, store)
	if err != nil {
		return summary, zerr.Wrap(err, "build aborted")
	}

	if failed := len(summary.Failed()); failed > 0 {
		return summary, zerr.With(zerr.Wrap(domain.ErrBuildFailed, ""), "failed", failed)
	}
	return summary, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	// Force removes outputs even when shade has no matching build record for them.
	Force bool
}

// Clean removes the compiled outputs of the discovered sources.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Force = opts.Force

	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	result, err := a.runner.Clean(ctx, cfg, a.openStore(cfg.StateFile))
	if err != nil {
		return zerr.Wrap(err, "clean aborted")
	}

	for _, output := range result.Removed {
		a.logger.Info("removed " + output)
	}
	a.logger.Info(fmt.Sprintf("removed %d output(s), kept %d", len(result.Removed), len(result.Kept)))
	return nil
}

func (a *App) loadConfig(path string) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}
