package ports

import "go.trai.ch/shade/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration at path. An empty path selects the default config file
	// in the working directory, falling back to built-in defaults when none exists.
	Load(path string) (*domain.Config, error)
}
