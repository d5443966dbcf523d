// Package runner decides which shader outputs are stale and recompiles them.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner processes the discovered sources of a config one at a time.
type Runner struct {
	fs       ports.FileSystem
	compiler ports.Compiler
	hasher   ports.Hasher
	logger   ports.Logger
	reporter ports.Reporter

	now func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(
	fs ports.FileSystem,
	compiler ports.Compiler,
	hasher ports.Hasher,
	logger ports.Logger,
	reporter ports.Reporter,
) *Runner {
	return &Runner{
		fs:       fs,
		compiler: compiler,
		hasher:   hasher,
		logger:   logger,
		reporter: reporter,
		now:      time.Now,
	}
}

// Discover lists the sources of cfg: the accepted files of every source directory
// in lexical order, followed by the extra sources. A path reached twice is kept
// at its first position. Listed files named in cfg.IgnoredFiles are skipped.
// A missing directory or extra source is fatal.
func (r *Runner) Discover(cfg *domain.Config) ([]string, error) {
	var sources []string
	seen := make(map[string]struct{})

	ignored := make(map[string]struct{}, len(cfg.IgnoredFiles))
	for _, path := range cfg.IgnoredFiles {
		ignored[absPath(path)] = struct{}{}
	}

	add := func(path string) {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		sources = append(sources, path)
	}

	for _, dir := range cfg.SourceDirectories {
		files, err := r.fs.ListFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if _, skip := ignored[absPath(file)]; skip {
				continue
			}
			if domain.IsSource(file, cfg.OutputSuffix, cfg.ExcludeSuffixes) {
				add(file)
			}
		}
	}

	for _, extra := range cfg.ExtraSources {
		if _, err := r.fs.ModTime(extra); err != nil {
			return nil, zerr.Wrap(err, "extra source is not available")
		}
		add(extra)
	}

	return sources, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Decide derives the output of source and determines whether it must be rebuilt.
// An absent output is not an error; a missing source is.
func (r *Runner) Decide(source string, cfg *domain.Config) (domain.Directive, error) {
	directive := domain.Directive{
		Source: source,
		Output: domain.DeriveOutputPath(source, cfg.OutputSuffix),
	}

	sourceTime, err := r.fs.ModTime(source)
	if err != nil {
		return directive, err
	}

	outputStamp := domain.Absent()
	outputTime, err := r.fs.ModTime(directive.Output)
	switch {
	case err == nil:
		outputStamp = domain.Present(outputTime)
	case !errors.Is(err, domain.ErrSourceNotFound):
		return directive, err
	}

	rebuild, reason := domain.NeedsRebuild(domain.Present(sourceTime), outputStamp, cfg.Force)
	directive.Reason = reason
	if rebuild {
		directive.Decision = domain.DecisionRebuild
	}
	return directive, nil
}

// Run discovers the sources of cfg and brings every output up to date.
//
// Items are processed sequentially. A failed item is reported and the batch continues;
// the returned summary holds every outcome. Discovery errors abort the run before any
// item is processed. Cancelling ctx stops the run between items.
func (r *Runner) Run(ctx context.Context, cfg *domain.Config, store ports.BuildRecordStore) (*domain.Summary, error) {
	sources, err := r.Discover(cfg)
	if err != nil {
		return nil, err
	}

	r.reporter.OnStart(len(sources), cfg.Force)

	summary := &domain.Summary{}
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			r.reporter.OnFinish(summary)
			return summary, zerr.Wrap(err, "build interrupted")
		}

		result := r.process(ctx, cfg, store, source)
		summary.Add(result)
		r.reporter.OnItem(result)
	}

	r.reporter.OnFinish(summary)
	return summary, nil
}

func (r *Runner) process(
	ctx context.Context,
	cfg *domain.Config,
	store ports.BuildRecordStore,
	source string,
) domain.ItemResult {
	start := r.now()

	directive, err := r.Decide(source, cfg)
	if err != nil {
		return domain.ItemResult{Directive: directive, Status: domain.StatusFailed, Err: err}
	}

	if directive.Decision == domain.DecisionSkip {
		return domain.ItemResult{Directive: directive, Status: domain.StatusUpToDate}
	}

	if err := r.compiler.Compile(ctx, cfg.Toolchain(), directive.Source, directive.Output); err != nil {
		return domain.ItemResult{
			Directive: directive,
			Status:    domain.StatusFailed,
			Err:       err,
			Duration:  r.now().Sub(start),
		}
	}

	r.record(store, cfg, directive)

	return domain.ItemResult{
		Directive: directive,
		Status:    domain.StatusCompiled,
		Duration:  r.now().Sub(start),
	}
}

// record stores the fingerprint of a freshly compiled output. Failures only warn:
// the output itself is valid, it just will not be eligible for clean.
func (r *Runner) record(store ports.BuildRecordStore, cfg *domain.Config, directive domain.Directive) {
	if store == nil {
		return
	}

	hash, err := r.hasher.HashFile(directive.Output)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("could not fingerprint %s: %v", directive.Output, err))
		return
	}

	record := domain.BuildRecord{
		Source:     directive.Source,
		Output:     directive.Output,
		OutputHash: hash,
		Compiler:   cfg.CompilerPath,
		CompiledAt: r.now(),
	}
	if err := store.Put(record); err != nil {
		r.logger.Warn(fmt.Sprintf("could not record build of %s: %v", directive.Output, err))
	}
}
