package ports

import "go.trai.ch/thesaurus/internal/core/domain"

// ConfigLoader defines the interface for loading the service configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the configuration at path.
	// A missing file yields an empty configuration and a warning, not an error.
	Load(path string) (*domain.Config, error)
}
