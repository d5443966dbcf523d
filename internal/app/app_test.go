package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/cas"
	"go.trai.ch/shade/internal/adapters/fs"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/shade/internal/core/ports/mocks"
	"go.trai.ch/shade/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	dir      string
	cfg      *domain.Config
	app      *app.App
	loader   *mocks.MockConfigLoader
	compiler *mocks.MockCompiler
	logger   *mocks.MockLogger
	watcher  *mocks.MockWatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	dir := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.SourceDirectories = []string{dir}
	cfg.StateFile = filepath.Join(dir, ".shade", "state.json")

	f := &fixture{
		dir:      dir,
		cfg:      cfg,
		loader:   mocks.NewMockConfigLoader(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
	}

	reporter := mocks.NewMockReporter(ctrl)
	reporter.EXPECT().OnStart(gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().OnItem(gomock.Any()).AnyTimes()
	reporter.EXPECT().OnFinish(gomock.Any()).AnyTimes()

	r := runner.NewRunner(fs.NewFileSystem(), f.compiler, fs.NewHasher(), f.logger, reporter)
	openStore := func(path string) ports.BuildRecordStore { return cas.NewStore(path) }

	f.app = app.New(f.loader, r, f.logger, openStore, f.watcher).WithDebounceWindow(10 * time.Millisecond)
	return f
}

// loads makes the loader return a fresh copy of the fixture config.
func (f *fixture) loads(path string) *gomock.Call {
	return f.loader.EXPECT().Load(path).DoAndReturn(func(string) (*domain.Config, error) {
		cfg := *f.cfg
		return &cfg, nil
	})
}

func (f *fixture) source(t *testing.T, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#version 450\nvoid main() {}\n"), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func (f *fixture) compiles(source string) *gomock.Call {
	return f.compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), source, source+".spv").
		DoAndReturn(func(_ context.Context, _ domain.Toolchain, src, out string) error {
			return os.WriteFile(out, []byte("spirv of "+src), 0o600)
		})
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	source := f.source(t, "a.vert", past)

	f.loads("")
	f.compiles(source)

	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{}))

	_, err := os.Stat(source + ".spv")
	assert.NoError(t, err)
}

func TestApp_Build_ForceFlag(t *testing.T) {
	f := newFixture(t)
	stamp := time.Now().Add(-time.Hour)
	source := f.source(t, "a.vert", stamp)
	require.NoError(t, os.WriteFile(source+".spv", []byte("old"), 0o600))
	require.NoError(t, os.Chtimes(source+".spv", stamp, stamp))

	f.loads("shade.yaml").Times(2)

	// Equal timestamps are up to date without the flag.
	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{ConfigPath: "shade.yaml"}))

	f.compiles(source)
	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{ConfigPath: "shade.yaml", Force: true}))
}

func TestApp_Build_ItemFailure(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	broken := f.source(t, "a.frag", past)
	good := f.source(t, "b.vert", past)

	f.loads("")
	gomock.InOrder(
		f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), broken, broken+".spv").
			Return(zerr.Wrap(domain.ErrCompileFailed, "compiler exited with status 2")),
		f.compiles(good),
	)

	err := f.app.Build(t.Context(), app.BuildOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)

	// The batch continued past the failure.
	_, statErr := os.Stat(good + ".spv")
	assert.NoError(t, statErr)
}

func TestApp_Build_FatalErrors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("missing.yaml").
			Return(nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "path", "missing.yaml"))

		err := f.app.Build(t.Context(), app.BuildOptions{ConfigPath: "missing.yaml"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("discovery", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.SourceDirectories = []string{filepath.Join(f.dir, "missing")}
		f.loads("")

		err := f.app.Build(t.Context(), app.BuildOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceNotFound)
		assert.False(t, errors.Is(err, domain.ErrBuildFailed))
	})
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	compiled := f.source(t, "a.vert", past)
	foreign := f.source(t, "b.frag", past)
	require.NoError(t, os.WriteFile(foreign+".spv", []byte("hand made"), 0o600))

	f.loads("").Times(2)
	f.compiles(compiled)
	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{}))

	f.logger.EXPECT().Warn("keeping " + foreign + ".spv: no build record")
	f.logger.EXPECT().Info("removed " + compiled + ".spv")
	f.logger.EXPECT().Info("removed 1 output(s), kept 1")

	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))

	_, err := os.Stat(compiled + ".spv")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(foreign + ".spv")
	assert.NoError(t, err)
}

func TestApp_Clean_Force(t *testing.T) {
	f := newFixture(t)
	foreign := f.source(t, "b.frag", time.Now().Add(-time.Hour))
	require.NoError(t, os.WriteFile(foreign+".spv", []byte("hand made"), 0o600))

	f.loads("")
	f.logger.EXPECT().Info(gomock.Any()).Times(2)

	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{Force: true}))

	_, err := os.Stat(foreign + ".spv")
	assert.True(t, os.IsNotExist(err))
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	source := f.source(t, "a.vert", time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	events := make(chan ports.WatchEvent)
	rebuilt := make(chan struct{})

	f.loads("")
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.watcher.EXPECT().Start(gomock.Any(), []string{f.dir}).
		DoAndReturn(func(ctx context.Context, _ []string) error {
			go func() {
				<-ctx.Done()
				close(events)
			}()
			return nil
		})
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for event := range events {
			if !yield(event) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().Return(nil).AnyTimes()

	gomock.InOrder(
		f.compiles(source),
		f.compiles(source).Do(func(context.Context, domain.Toolchain, string, string) { close(rebuilt) }),
	)

	done := make(chan error, 1)
	go func() { done <- f.app.Watch(ctx, app.WatchOptions{}) }()

	// The compiler's own output never triggers a rebuild; the edited source does.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, future, future))
	events <- ports.WatchEvent{Path: source + ".spv", Operation: ports.OpCreate}
	events <- ports.WatchEvent{Path: source, Operation: ports.OpWrite}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestApp_Watch_StartError(t *testing.T) {
	f := newFixture(t)
	f.cfg.SourceDirectories = []string{f.dir}

	f.loads("")
	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).Return(errors.New("inotify limit reached"))

	err := f.app.Watch(t.Context(), app.WatchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start watching")
}
