package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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

type testApp struct {
	app      *app.App
	loader   *mocks.MockConfigLoader
	compiler *mocks.MockCompiler
	logger   *mocks.MockLogger
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctrl := gomock.NewController(t)

	reporter := mocks.NewMockReporter(ctrl)
	reporter.EXPECT().OnStart(gomock.Any(), gomock.Any()).AnyTimes()
	reporter.EXPECT().OnItem(gomock.Any()).AnyTimes()
	reporter.EXPECT().OnFinish(gomock.Any()).AnyTimes()

	ta := &testApp{
		loader:   mocks.NewMockConfigLoader(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	r := runner.NewRunner(fs.NewFileSystem(), ta.compiler, fs.NewHasher(), ta.logger, reporter)
	ta.app = app.New(ta.loader, r, ta.logger,
		func(path string) ports.BuildRecordStore { return cas.NewStore(path) },
		mocks.NewMockWatcher(ctrl))
	return ta
}

func (ta *testApp) provider() ComponentProvider {
	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: ta.app, Logger: ta.logger}, func() {}, nil
	}
}

func shaderConfig(t *testing.T) *domain.Config {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "a.vert")
	past := time.Now().Add(-time.Hour)
	if err := os.WriteFile(source, []byte("void main() {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(source, past, past); err != nil {
		t.Fatal(err)
	}

	cfg := domain.DefaultConfig()
	cfg.SourceDirectories = []string{dir}
	cfg.StateFile = filepath.Join(dir, ".shade", "state.json")
	return cfg
}

func TestRun_Version(t *testing.T) {
	ta := newTestApp(t)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), ta.provider())
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), nil, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_BuildSucceeds(t *testing.T) {
	ta := newTestApp(t)
	cfg := shaderConfig(t)
	ta.loader.EXPECT().Load("").Return(cfg, nil)
	ta.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Toolchain, _, out string) error {
			return os.WriteFile(out, []byte("spirv"), 0o600)
		})

	assert.Equal(t, 0, run(context.Background(), nil, new(bytes.Buffer), ta.provider()))
}

func TestRun_ItemFailureExitsOneWithoutReprinting(t *testing.T) {
	ta := newTestApp(t)
	cfg := shaderConfig(t)
	ta.loader.EXPECT().Load("").Return(cfg, nil)
	ta.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(zerr.Wrap(domain.ErrCompileFailed, "compiler exited with status 1"))
	// No Error call is expected on the logger: the reporter already printed the failure.

	assert.Equal(t, 1, run(context.Background(), []string{"--force"}, new(bytes.Buffer), ta.provider()))
}

func TestRun_FatalErrorIsLogged(t *testing.T) {
	ta := newTestApp(t)
	ta.loader.EXPECT().Load("missing.yaml").
		Return(nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "path", "missing.yaml"))
	ta.logger.EXPECT().Error(gomock.Any()).Times(1)

	assert.Equal(t, 1, run(context.Background(), []string{"-c", "missing.yaml"}, new(bytes.Buffer), ta.provider()))
}

func TestRun_CancelledContext(t *testing.T) {
	ta := newTestApp(t)
	cfg := shaderConfig(t)
	ta.loader.EXPECT().Load("").Return(cfg, nil)
	ta.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 1, run(ctx, nil, new(bytes.Buffer), ta.provider()))
}
