// Package project implements the in-project resolver that answers for
// modules declared in the workspace itself. Workspace modules are not
// published anywhere, so resolution is a lookup over the declared
// descriptors and artifacts are usually metadata only.
package project

import (
	"context"

	"go.trai.ch/moor/internal/core/domain"
)

// Repository answers requests for the workspace's own modules.
type Repository struct {
	name     string
	strategy domain.LatestStrategy
	modules  []domain.Descriptor
}

// New creates an in-project resolver over the declared workspace modules.
func New(name string, modules []domain.Descriptor) *Repository {
	return &Repository{
		name:     name,
		strategy: domain.LatestRevision{},
		modules:  modules,
	}
}

// Name returns the resolver's configured name.
func (r *Repository) Name() string {
	return r.name
}

// LatestStrategy returns the resolver's current selection strategy.
func (r *Repository) LatestStrategy() domain.LatestStrategy {
	return r.strategy
}

// SetLatestStrategy replaces the resolver's selection strategy.
func (r *Repository) SetLatestStrategy(s domain.LatestStrategy) {
	r.strategy = s
}

// Resolve answers the request from the declared workspace modules. A forced
// current revision is echoed back untouched.
func (r *Repository) Resolve(ctx context.Context, req domain.DependencyRequest, current *domain.ResolvedRevision) (*domain.ResolvedRevision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if current != nil && current.Forced() {
		return current, nil
	}

	if !domain.IsFloatingRevision(req.Revision) {
		found := r.lookup(req.ID, req.Revision)
		if found == nil || current != nil {
			return current, nil
		}
		return found, nil
	}

	best := current
	for _, desc := range r.modules {
		if desc.ID != req.ID || !domain.RevisionMatches(req.Revision, desc.Revision) {
			continue
		}
		candidate := domain.NewResolvedRevision(desc, r.name)
		if r.strategy.Prefer(best, candidate) {
			best = candidate
		}
	}
	return best, nil
}

// Locate returns an origin only when the module declares an explicit
// artifact URL. Workspace modules without one are metadata only.
func (r *Repository) Locate(_ context.Context, rev *domain.ResolvedRevision) (*domain.ArtifactOrigin, error) {
	for _, artifact := range rev.Descriptor().Artifacts {
		if artifact.URL != "" {
			return &domain.ArtifactOrigin{Location: artifact.URL, Local: false}, nil
		}
	}
	return nil, nil
}

func (r *Repository) lookup(id domain.ModuleID, revision string) *domain.ResolvedRevision {
	for _, desc := range r.modules {
		if desc.ID == id && desc.Revision == revision {
			return domain.NewResolvedRevision(desc, r.name)
		}
	}
	return nil
}
