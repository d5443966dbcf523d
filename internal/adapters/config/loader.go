// Package config provides the configuration loader for shade.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvCompiler overrides the configured compiler executable.
	EnvCompiler = "SHADE_COMPILER"
	// EnvCompilerArgs overrides the configured extra compiler arguments.
	EnvCompilerArgs = "SHADE_COMPILER_ARGS"
	// DotEnvFile is loaded from the working directory before environment overrides apply.
	DotEnvFile = ".env"
)

// DefaultFileNames are tried in order when no config path is given.
var DefaultFileNames = []string{"shade.yaml", "shade.yml", "shade.toml"}

// Loader implements ports.ConfigLoader using a YAML or TOML file.
type Loader struct {
	Logger ports.Logger
	// Dir is the working directory used for config discovery and relative paths.
	// Empty means the process working directory.
	Dir string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at path, or discovers one in the working directory when
// path is empty. Without any config file the defaults are returned.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	configPath, err := l.findConfiguration(path)
	if err != nil {
		return nil, err
	}

	cfg := domain.DefaultConfig()
	baseDir := l.workDir()

	if configPath != "" {
		var file Shadefile
		if err := decodeFile(configPath, &file); err != nil {
			return nil, err
		}
		if err := apply(cfg, &file); err != nil {
			return nil, zerr.With(err, "config", configPath)
		}
		baseDir = filepath.Dir(configPath)
	}

	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}

	if err := resolvePaths(cfg, baseDir); err != nil {
		return nil, err
	}

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	cfg.IgnoredFiles = l.ownFiles(configPath)
	return cfg, nil
}

// ownFiles lists the files shade itself reads, so a source directory that holds them
// does not hand them to the compiler.
func (l *Loader) ownFiles(configPath string) []string {
	files := make([]string, 0, len(DefaultFileNames)+2)
	for _, name := range DefaultFileNames {
		files = append(files, filepath.Join(l.workDir(), name))
	}
	files = append(files, filepath.Join(l.workDir(), DotEnvFile))
	if configPath != "" {
		files = append(files, configPath)
	}
	return files
}

func (l *Loader) workDir() string {
	if l.Dir == "" {
		return "."
	}
	return l.Dir
}

func (l *Loader) loadDotEnv() error {
	path := filepath.Join(l.workDir(), DotEnvFile)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}
	return nil
}

func (l *Loader) findConfiguration(path string) (string, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(l.workDir(), expanded)
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "path", path)
		}
		return expanded, nil
	}

	var found []string
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(l.workDir(), name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = append(found, candidate)
		}
	}

	if len(found) == 0 {
		return "", nil
	}
	if len(found) > 1 {
		l.Logger.Warn(fmt.Sprintf("multiple config files found, using %s", filepath.Base(found[0])))
	}
	return found[0], nil
}

func decodeFile(path string, out *Shadefile) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(out)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(out)
		if errors.Is(err, io.EOF) {
			// An empty file keeps the defaults.
			err = nil
		}
	}

	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return nil
}

func apply(cfg *domain.Config, file *Shadefile) error {
	if file.Compiler != "" {
		cfg.CompilerPath = file.Compiler
	}
	if file.CompilerArgs != "" {
		args, err := splitArgs(file.CompilerArgs)
		if err != nil {
			return err
		}
		cfg.CompilerArgs = args
	}
	if len(file.Environment) > 0 {
		cfg.Environment = file.Environment
	}
	if file.Directories != nil {
		cfg.SourceDirectories = file.Directories
	}
	if file.ExtraSources != nil {
		cfg.ExtraSources = file.ExtraSources
	}
	if file.ExcludeSuffixes != nil {
		cfg.ExcludeSuffixes = file.ExcludeSuffixes
	}
	if file.OutputSuffix != nil {
		cfg.OutputSuffix = *file.OutputSuffix
	}
	if file.StateFile != "" {
		cfg.StateFile = file.StateFile
	}
	cfg.Force = file.Force
	return nil
}

func applyEnvironment(cfg *domain.Config) error {
	if compiler := os.Getenv(EnvCompiler); compiler != "" {
		cfg.CompilerPath = compiler
	}
	if raw, ok := os.LookupEnv(EnvCompilerArgs); ok {
		args, err := splitArgs(raw)
		if err != nil {
			return zerr.With(err, "env", EnvCompilerArgs)
		}
		cfg.CompilerArgs = args
	}
	return nil
}

func splitArgs(raw string) ([]string, error) {
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "compiler_args", raw)
	}
	return args, nil
}

// resolvePaths expands "~" and anchors relative paths at baseDir.
func resolvePaths(cfg *domain.Config, baseDir string) error {
	var err error

	// Bare executable names are looked up on PATH, so only path-like values are anchored.
	if cfg.CompilerPath, err = homedir.Expand(cfg.CompilerPath); err != nil {
		return wrapPathErr(err, cfg.CompilerPath)
	}
	if strings.ContainsRune(cfg.CompilerPath, filepath.Separator) && !filepath.IsAbs(cfg.CompilerPath) {
		cfg.CompilerPath = filepath.Join(baseDir, cfg.CompilerPath)
	}

	if cfg.SourceDirectories, err = resolveAll(cfg.SourceDirectories, baseDir); err != nil {
		return err
	}
	if cfg.ExtraSources, err = resolveAll(cfg.ExtraSources, baseDir); err != nil {
		return err
	}
	if cfg.StateFile, err = resolve(cfg.StateFile, baseDir); err != nil {
		return err
	}
	return nil
}

func resolveAll(paths []string, baseDir string) ([]string, error) {
	if len(paths) == 0 {
		return paths, nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := resolve(p, baseDir)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func resolve(path, baseDir string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", wrapPathErr(err, path)
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(baseDir, expanded), nil
}

func wrapPathErr(err error, path string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "path", path)
}

func (l *Loader) validate(cfg *domain.Config) error {
	if cfg.OutputSuffix == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "output suffix must not be empty"), "field", "output_suffix")
	}
	if len(cfg.SourceDirectories) == 0 && len(cfg.ExtraSources) == 0 {
		return zerr.Wrap(domain.ErrInvalidConfig, "no source directories or extra sources configured")
	}
	if cfg.CompilerPath == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "compiler must not be empty"), "field", "compiler")
	}
	if !strings.HasPrefix(cfg.OutputSuffix, ".") {
		l.Logger.Warn(fmt.Sprintf("output suffix %q does not start with a dot", cfg.OutputSuffix))
	}
	return nil
}
