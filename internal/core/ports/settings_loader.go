package ports

import "go.trai.ch/moor/internal/core/domain"

//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks

// SettingsLoader locates and parses the workspace settings file.
type SettingsLoader interface {
	// Load searches startDir and its parents for a settings file and
	// returns the parsed workspace settings.
	Load(startDir string) (*domain.Settings, error)
}
