package ports

import "go.trai.ch/precache/internal/core/domain"

// ConfigLoader defines the interface for loading the manifest configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load searches cwd and its parents for the config file.
	// When none exists it returns the built-in defaults.
	Load(cwd string) (*domain.Config, error)

	// LoadFile reads the config file at path.
	LoadFile(path string) (*domain.Config, error)
}
