package settings

import (
	"path/filepath"

	"go.trai.ch/moor/internal/adapters/repo/chain"
	"go.trai.ch/moor/internal/adapters/repo/fsrepo"
	"go.trai.ch/moor/internal/adapters/repo/httprepo"
	"go.trai.ch/moor/internal/adapters/repo/project"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/moor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// BuildResolvers constructs the resolver chain declared by the settings, in
// declaration order. Chain repositories get their own engine, wired as
// dual-purpose so their answers point back at the chain for artifact
// resolution.
func BuildResolvers(s *domain.Settings, log ports.Logger, tracer ports.Tracer) ([]ports.Resolver, error) {
	resolvers := make([]ports.Resolver, 0, len(s.Repositories))
	for _, spec := range s.Repositories {
		r, err := buildResolver(spec, s, log, tracer)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, r)
	}
	return resolvers, nil
}

// SelfResolverName returns the name of the first project-kind repository,
// searching nested chains. Empty when the settings declare none.
func SelfResolverName(specs []domain.RepositorySpec) string {
	for _, spec := range specs {
		switch spec.Kind {
		case domain.RepoKindProject:
			return spec.Name
		case domain.RepoKindChain:
			if name := SelfResolverName(spec.Repositories); name != "" {
				return name
			}
		}
	}
	return ""
}

func buildResolver(spec domain.RepositorySpec, s *domain.Settings, log ports.Logger, tracer ports.Tracer) (ports.Resolver, error) {
	switch spec.Kind {
	case domain.RepoKindFS:
		strategy, err := domain.StrategyByName(spec.Strategy)
		if err != nil {
			return nil, zerr.With(err, "repository", spec.Name)
		}
		return fsrepo.New(spec.Name, spec.Path, strategy, log), nil

	case domain.RepoKindHTTP:
		strategy, err := domain.StrategyByName(spec.Strategy)
		if err != nil {
			return nil, zerr.With(err, "repository", spec.Name)
		}
		return httprepo.New(httprepo.Options{
			Name:            spec.Name,
			BaseURL:         spec.URL,
			Strategy:        strategy,
			ChangingPattern: s.ChangingPattern,
			MetaDir:         filepath.Join(s.CacheDir, domain.MetaDirName),
		}, log), nil

	case domain.RepoKindProject:
		return project.New(spec.Name, s.Modules), nil

	case domain.RepoKindChain:
		members := make([]ports.Resolver, 0, len(spec.Repositories))
		for _, member := range spec.Repositories {
			r, err := buildResolver(member, s, log, tracer)
			if err != nil {
				return nil, err
			}
			members = append(members, r)
		}

		eng := resolve.NewEngine(resolve.Options{
			Name:                  spec.Name,
			ReturnFirst:           spec.ReturnFirst,
			PreferLatestSnapshots: s.PreferLatestSnapshots,
			ChangingPattern:       s.ChangingPattern,
			SelfResolverName:      SelfResolverName(s.Repositories),
			DualPurpose:           true,
		}, log, tracer)
		return chain.New(spec.Name, eng, members, log), nil

	default:
		err := zerr.With(domain.ErrUnknownRepositoryKind, "repository", spec.Name)
		return nil, zerr.With(err, "kind", string(spec.Kind))
	}
}
