package domain

import "slices"

const (
	// DefaultCompiler is the compiler executable used when none is configured.
	DefaultCompiler = "glslangValidator"
	// DefaultOutputSuffix is appended to a source path to name its compiled output.
	DefaultOutputSuffix = ".spv"
	// DefaultStateFile is where build records are persisted.
	DefaultStateFile = ".shade/state.json"
)

// DefaultExcludeSuffixes lists the header and shared-include suffixes that are never compiled.
var DefaultExcludeSuffixes = []string{".h", ".inc"}

// Config describes a single build run.
type Config struct {
	// CompilerPath is the compiler executable name or path.
	CompilerPath string
	// CompilerArgs are inserted after the debug flag and before the source path.
	CompilerArgs []string
	// Environment holds variables added to the compiler's environment.
	Environment map[string]string

	SourceDirectories []string
	ExtraSources      []string
	ExcludeSuffixes   []string
	OutputSuffix      string

	// Force treats every source as stale.
	Force bool

	StateFile string
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		CompilerPath:      DefaultCompiler,
		SourceDirectories: []string{"."},
		ExcludeSuffixes:   slices.Clone(DefaultExcludeSuffixes),
		OutputSuffix:      DefaultOutputSuffix,
		StateFile:         DefaultStateFile,
	}
}

// Toolchain returns the compiler invocation settings of the config.
func (c *Config) Toolchain() Toolchain {
	return Toolchain{
		Path:      c.CompilerPath,
		ExtraArgs: c.CompilerArgs,
		Env:       c.Environment,
	}
}

// Toolchain carries what the compiler adapter needs to launch the compiler.
type Toolchain struct {
	Path      string
	ExtraArgs []string
	Env       map[string]string
}
