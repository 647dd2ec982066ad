// Package settings provides the workspace settings loader for moor.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load searches startDir and its parents for a moorfile and returns the
// validated workspace settings.
func (l *Loader) Load(startDir string) (*domain.Settings, error) {
	// The upward walk needs an absolute directory; "." would be its own
	// parent and end the search immediately.
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsReadFailed.Error())
	}

	path, err := l.findSettings(absDir)
	if err != nil {
		return nil, err
	}

	var file Moorfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}

	return l.build(path, &file)
}

func (l *Loader) findSettings(startDir string) (string, error) {
	currentDir := startDir

	for {
		candidate := filepath.Join(currentDir, domain.SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrSettingsNotFound, "cwd", startDir)
}

func (l *Loader) build(path string, file *Moorfile) (*domain.Settings, error) {
	if err := validateWorkspaceName(file.Workspace); err != nil {
		return nil, err
	}

	root := resolveRoot(path, file.Root)

	// Track repository names across nesting levels to ensure uniqueness
	seen := make(map[string]bool)

	repositories := make([]domain.RepositorySpec, 0, len(file.Repositories))
	for _, dto := range file.Repositories {
		spec, err := l.buildRepository(dto, root, seen)
		if err != nil {
			return nil, err
		}
		repositories = append(repositories, spec)
	}

	modules := make([]domain.Descriptor, 0, len(file.Modules))
	for _, dto := range file.Modules {
		desc, err := buildModule(dto)
		if err != nil {
			return nil, err
		}
		modules = append(modules, desc)
	}

	dependencies := make([]domain.DependencyRequest, 0, len(file.Dependencies))
	for _, dto := range file.Dependencies {
		req, err := buildDependency(dto)
		if err != nil {
			return nil, err
		}
		dependencies = append(dependencies, req)
	}

	return &domain.Settings{
		Workspace:             file.Workspace,
		Root:                  root,
		CacheDir:              resolveDir(root, file.CacheDir, domain.DefaultCachePath()),
		ChangingPattern:       file.ChangingPattern,
		PreferLatestSnapshots: file.PreferLatestSnapshots,
		ReturnFirst:           file.ReturnFirst,
		Repositories:          repositories,
		Modules:               modules,
		Dependencies:          dependencies,
	}, nil
}

func (l *Loader) buildRepository(dto RepositoryDTO, root string, seen map[string]bool) (domain.RepositorySpec, error) {
	if !validNameRegex.MatchString(dto.Name) {
		return domain.RepositorySpec{}, zerr.With(domain.ErrInvalidRepositoryName, "repository", dto.Name)
	}
	if seen[dto.Name] {
		return domain.RepositorySpec{}, zerr.With(domain.ErrDuplicateRepositoryName, "repository", dto.Name)
	}
	seen[dto.Name] = true

	if _, err := domain.StrategyByName(dto.Strategy); err != nil {
		return domain.RepositorySpec{}, zerr.With(err, "repository", dto.Name)
	}

	spec := domain.RepositorySpec{
		Name:        dto.Name,
		Kind:        domain.RepositoryKind(dto.Kind),
		Strategy:    dto.Strategy,
		ReturnFirst: dto.ReturnFirst,
	}

	switch spec.Kind {
	case domain.RepoKindFS:
		if dto.Path == "" {
			return domain.RepositorySpec{}, zerr.With(domain.ErrMissingRepositoryPath, "repository", dto.Name)
		}
		spec.Path = resolvePath(root, dto.Path)

	case domain.RepoKindHTTP:
		if dto.URL == "" {
			return domain.RepositorySpec{}, zerr.With(domain.ErrMissingRepositoryURL, "repository", dto.Name)
		}
		spec.URL = dto.URL

	case domain.RepoKindProject:

	case domain.RepoKindChain:
		if dto.Strategy != "" {
			l.Logger.Warn(fmt.Sprintf("'strategy' on chain repository %s has no effect, set it on the members", dto.Name))
		}
		if len(dto.Repositories) == 0 {
			return domain.RepositorySpec{}, zerr.With(domain.ErrEmptyChain, "repository", dto.Name)
		}
		for _, member := range dto.Repositories {
			sub, err := l.buildRepository(member, root, seen)
			if err != nil {
				return domain.RepositorySpec{}, err
			}
			spec.Repositories = append(spec.Repositories, sub)
		}

	default:
		err := zerr.With(domain.ErrUnknownRepositoryKind, "repository", dto.Name)
		return domain.RepositorySpec{}, zerr.With(err, "kind", dto.Kind)
	}

	return spec, nil
}

func buildModule(dto ModuleDTO) (domain.Descriptor, error) {
	var missing string
	switch {
	case dto.Organization == "":
		missing = "organization"
	case dto.Name == "":
		missing = "name"
	case dto.Revision == "":
		missing = "revision"
	}
	if missing != "" {
		return domain.Descriptor{}, zerr.With(domain.ErrDescriptorInvalid, "missing", missing)
	}

	return domain.Descriptor{
		ID:          domain.NewModuleID(dto.Organization, dto.Name),
		Revision:    dto.Revision,
		Description: dto.Description,
		Published:   dto.Published,
		Artifacts:   dto.Artifacts,
	}, nil
}

func buildDependency(dto DependencyDTO) (domain.DependencyRequest, error) {
	if dto.Organization == "" || dto.Name == "" {
		err := zerr.With(domain.ErrMissingDependencyName, "organization", dto.Organization)
		return domain.DependencyRequest{}, zerr.With(err, "name", dto.Name)
	}
	if dto.Revision == "" {
		return domain.DependencyRequest{}, zerr.With(domain.ErrMissingDependencyRevision, "dependency", dto.Organization+"/"+dto.Name)
	}

	transitive := true
	if dto.Transitive != nil {
		transitive = *dto.Transitive
	}

	return domain.DependencyRequest{
		ID:             domain.NewModuleID(dto.Organization, dto.Name),
		Revision:       dto.Revision,
		Transitive:     transitive,
		Force:          dto.Force,
		Changing:       dto.Changing,
		Configurations: domain.ConfigurationMapping(dto.Configurations),
		Artifacts:      dto.Artifacts,
		Exclusions:     dto.Exclusions,
	}, nil
}

func validateWorkspaceName(name string) error {
	if name == "" {
		return domain.ErrMissingWorkspaceName
	}
	if !validNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidWorkspaceName, "workspace", name)
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(root, path))
}

func resolveDir(root, configured, fallback string) string {
	if configured == "" {
		return filepath.Join(root, fallback)
	}
	return resolvePath(root, configured)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the upward settings search
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSettingsReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrSettingsParseFailed.Error())
	}

	return nil
}
