package ports

import (
	"context"

	"go.trai.ch/moor/internal/core/domain"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// RevisionCache stores previously resolved revisions keyed by the full
// dependency request. Implementations must hand out independent values:
// a revision returned by Lookup is never mutated in place by later writes.
type RevisionCache interface {
	// Lookup returns the cached revision for the request, or nil without
	// an error when the request was never cached.
	Lookup(ctx context.Context, req domain.DependencyRequest) (*domain.ResolvedRevision, error)
	// Put stores the resolved revision for the request.
	Put(ctx context.Context, req domain.DependencyRequest, rev *domain.ResolvedRevision) error
	// RegisterOrigin records where the named resolver found an artifact
	// for the request. The origin is visible to later lookups.
	RegisterOrigin(ctx context.Context, resolverName string, req domain.DependencyRequest, origin domain.ArtifactOrigin) error
}
