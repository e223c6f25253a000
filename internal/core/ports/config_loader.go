package ports

import "go.trai.ch/cairn/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory and returns the settings
	// and the validated target graph.
	Load(cwd string) (*domain.Project, error)
}
