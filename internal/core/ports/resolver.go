// Package ports defines the interfaces between the resolution core and its adapters.
package ports

import (
	"context"

	"go.trai.ch/moor/internal/core/domain"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks

// Resolver is an ordered, named source of module metadata and artifacts.
type Resolver interface {
	// Name returns the resolver's configured name.
	Name() string
	// Resolve attempts to answer the request. current carries the best
	// revision found so far by the surrounding chain, or nil when none
	// exists. Returning a nil revision with a nil error means the
	// resolver has no answer for this request.
	Resolve(ctx context.Context, req domain.DependencyRequest, current *domain.ResolvedRevision) (*domain.ResolvedRevision, error)
	// Locate produces the artifact origin for a revision this resolver
	// previously answered with. A nil origin with a nil error means the
	// revision has no fetchable artifact here.
	Locate(ctx context.Context, rev *domain.ResolvedRevision) (*domain.ArtifactOrigin, error)
}

// StrategyResolver is implemented by resolvers whose latest-selection
// strategy can be inspected and replaced. The chain overrides the strategy
// while scanning all sources for a changing module and restores it after.
type StrategyResolver interface {
	Resolver
	// LatestStrategy returns the resolver's current selection strategy.
	LatestStrategy() domain.LatestStrategy
	// SetLatestStrategy replaces the resolver's selection strategy.
	SetLatestStrategy(s domain.LatestStrategy)
}
