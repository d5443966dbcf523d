package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceNotFound is returned when a source directory or an explicitly listed source does not exist.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrCompileFailed is returned when the compiler exits non-zero or cannot be started.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrBuildFailed is returned when one or more items of a run failed to compile.
	ErrBuildFailed = zerr.New("one or more shaders failed to compile")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the loaded configuration cannot drive a build.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrStoreReadFailed is returned when the build record store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build records")

	// ErrStoreWriteFailed is returned when the build record store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build records")
)
