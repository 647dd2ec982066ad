package settings

import (
	"time"

	"go.trai.ch/moor/internal/core/domain"
)

// Moorfile represents the structure of the moorfile.yaml settings file.
type Moorfile struct {
	Workspace             string          `yaml:"workspace"`
	Root                  string          `yaml:"root"`
	CacheDir              string          `yaml:"cacheDir"`
	ChangingPattern       string          `yaml:"changingPattern"`
	PreferLatestSnapshots bool            `yaml:"preferLatestSnapshots"`
	ReturnFirst           bool            `yaml:"returnFirst"`
	Repositories          []RepositoryDTO `yaml:"repositories"`
	Modules               []ModuleDTO     `yaml:"modules"`
	Dependencies          []DependencyDTO `yaml:"dependencies"`
}

// RepositoryDTO represents one repository declaration, possibly carrying
// nested members for a chain repository.
type RepositoryDTO struct {
	Name         string          `yaml:"name"`
	Kind         string          `yaml:"kind"`
	Path         string          `yaml:"path"`
	URL          string          `yaml:"url"`
	Strategy     string          `yaml:"strategy"`
	ReturnFirst  bool            `yaml:"returnFirst"`
	Repositories []RepositoryDTO `yaml:"repositories"`
}

// ModuleDTO represents a module the workspace itself publishes.
type ModuleDTO struct {
	Organization string            `yaml:"organization"`
	Name         string            `yaml:"name"`
	Revision     string            `yaml:"revision"`
	Description  string            `yaml:"description"`
	Published    time.Time         `yaml:"published"`
	Artifacts    []domain.Artifact `yaml:"artifacts"`
}

// DependencyDTO represents one declared dependency. Transitive defaults to
// true when omitted.
type DependencyDTO struct {
	Organization   string                 `yaml:"organization"`
	Name           string                 `yaml:"name"`
	Revision       string                 `yaml:"revision"`
	Transitive     *bool                  `yaml:"transitive"`
	Force          bool                   `yaml:"force"`
	Changing       bool                   `yaml:"changing"`
	Configurations map[string][]string    `yaml:"configurations"`
	Artifacts      []domain.Artifact      `yaml:"artifacts"`
	Exclusions     []domain.ExclusionRule `yaml:"exclusions"`
}
