package config

// Shadefile represents the structure of the shade.yaml / shade.toml configuration file.
type Shadefile struct {
	Compiler        string            `yaml:"compiler"         toml:"compiler"`
	CompilerArgs    string            `yaml:"compiler_args"    toml:"compiler_args"`
	Environment     map[string]string `yaml:"environment"      toml:"environment"`
	Directories     []string          `yaml:"directories"      toml:"directories"`
	ExtraSources    []string          `yaml:"extra_sources"    toml:"extra_sources"`
	ExcludeSuffixes []string          `yaml:"exclude_suffixes" toml:"exclude_suffixes"`
	OutputSuffix    *string           `yaml:"output_suffix"    toml:"output_suffix"`
	Force           bool              `yaml:"force"            toml:"force"`
	StateFile       string            `yaml:"state_file"       toml:"state_file"`
}
