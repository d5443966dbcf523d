package app

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/shade/internal/adapters/watcher"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	ConfigPath string
	// Force applies to the initial build only.
	Force bool
}

// Watch runs one build and then rebuilds whenever a source changes, until ctx is cancelled.
// Compile failures are reported but never end the watch.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	store := a.openStore(cfg.StateFile)

	initial := *cfg
	initial.Force = cfg.Force || opts.Force
	if _, err := a.build(ctx, &initial, store); err != nil && !errors.Is(err, domain.ErrBuildFailed) {
		return err
	}

	// Later rebuilds only pick up changed sources.
	cfg.Force = false
	filter := newWatchFilter(cfg)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(watchCtx, filter.directories()); err != nil {
		return zerr.Wrap(err, "failed to start watching")
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching for changes, press Ctrl+C to stop")

	triggers := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func([]string) {
		select {
		case triggers <- struct{}{}:
		default:
			// A rebuild is already pending and will see this change too.
		}
	})
	defer debouncer.Stop()

	g, gctx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		defer cancel()
		for event := range a.watcher.Events() {
			if filter.relevant(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-triggers:
				a.rebuild(gctx, cfg, store)
			}
		}
	})

	return g.Wait()
}

func (a *App) rebuild(ctx context.Context, cfg *domain.Config, store ports.BuildRecordStore) {
	_, err := a.build(ctx, cfg, store)
	switch {
	case err == nil, errors.Is(err, domain.ErrBuildFailed):
		// Item results were already reported.
	case ctx.Err() != nil:
	default:
		a.logger.Error(err)
	}
}

// watchFilter decides which file events can affect the build.
type watchFilter struct {
	dirs         map[string]struct{}
	extras       map[string]struct{}
	order        []string
	outputSuffix string
	excludes     []string
}

func newWatchFilter(cfg *domain.Config) *watchFilter {
	f := &watchFilter{
		dirs:         make(map[string]struct{}),
		extras:       make(map[string]struct{}),
		outputSuffix: cfg.OutputSuffix,
		excludes:     cfg.ExcludeSuffixes,
	}

	addDir := func(dir string) {
		dir = filepath.Clean(dir)
		for _, existing := range f.order {
			if existing == dir {
				return
			}
		}
		f.order = append(f.order, dir)
	}

	for _, dir := range cfg.SourceDirectories {
		f.dirs[filepath.Clean(dir)] = struct{}{}
		addDir(dir)
	}
	for _, extra := range cfg.ExtraSources {
		f.extras[filepath.Clean(extra)] = struct{}{}
		addDir(filepath.Dir(extra))
	}
	return f
}

// directories returns the directories to watch: the source directories followed by
// the parents of extra sources.
func (f *watchFilter) directories() []string {
	return f.order
}

func (f *watchFilter) relevant(path string) bool {
	clean := filepath.Clean(path)
	if _, ok := f.extras[clean]; ok {
		return true
	}
	if _, ok := f.dirs[filepath.Dir(clean)]; !ok {
		return false
	}
	return domain.IsSource(clean, f.outputSuffix, f.excludes)
}
