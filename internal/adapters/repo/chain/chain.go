// Package chain implements a resolver backed by a nested resolution chain.
// A group of resolvers and their own engine are presented to the enclosing
// chain as a single resolver; artifact location is delegated to whichever
// member produced the revision.
package chain

import (
	"context"

	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
)

// Engine runs one resolution over an ordered resolver list. It is satisfied
// by the resolve engine.
type Engine interface {
	Resolve(
		ctx context.Context,
		req domain.DependencyRequest,
		resolvers []ports.Resolver,
		cache ports.RevisionCache,
		prior *domain.ResolvedRevision,
	) (*domain.ResolvedRevision, error)
}

// Chain is a nested resolver chain acting as a single ports.Resolver.
type Chain struct {
	name    string
	engine  Engine
	members []ports.Resolver
	log     ports.Logger
}

// New creates a chain resolver over the given members. The engine must
// carry the chain's name and dual-purpose attribution so answers point back
// at the chain for artifact resolution.
func New(name string, engine Engine, members []ports.Resolver, log ports.Logger) *Chain {
	return &Chain{
		name:    name,
		engine:  engine,
		members: members,
		log:     log,
	}
}

// Name returns the chain's configured name.
func (c *Chain) Name() string {
	return c.name
}

// Resolve runs the nested chain. The enclosing chain owns revision caching,
// so the nested engine resolves uncached. A forced current revision is
// echoed back untouched; so is the current revision when no member knows
// the module.
func (c *Chain) Resolve(ctx context.Context, req domain.DependencyRequest, current *domain.ResolvedRevision) (*domain.ResolvedRevision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if current != nil && current.Forced() {
		return current, nil
	}

	found, err := c.engine.Resolve(ctx, req, c.members, nil, current)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return current, nil
	}
	return found, nil
}

// Locate delegates to the member that produced the revision. When the
// producer is not a direct member, every member is probed in order and the
// first origin wins.
func (c *Chain) Locate(ctx context.Context, rev *domain.ResolvedRevision) (*domain.ArtifactOrigin, error) {
	if member := c.member(rev.ResolverName()); member != nil {
		return member.Locate(ctx, rev)
	}

	for _, member := range c.members {
		origin, err := member.Locate(ctx, rev)
		if err != nil {
			c.log.Warn("artifact lookup via " + member.Name() + " failed for " + rev.ID().String() + "@" + rev.Revision() + ": " + err.Error())
			continue
		}
		if origin != nil {
			return origin, nil
		}
	}
	return nil, nil
}

func (c *Chain) member(name string) ports.Resolver {
	for _, member := range c.members {
		if member.Name() == name {
			return member
		}
	}
	return nil
}
