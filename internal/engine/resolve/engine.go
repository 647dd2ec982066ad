// Package resolve implements the chain resolution engine. A chain consults
// an ordered list of repository resolvers and reduces their answers to one
// authoritative revision, applying changing-revision scan semantics, cache
// short-circuits and error aggregation along the way.
package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configure a resolution chain.
type Options struct {
	// Name identifies the chain in attributions and error messages.
	Name string

	// ReturnFirst stops consulting further resolvers once an answer is
	// known. Ignored while scanning for a changing revision.
	ReturnFirst bool

	// PreferLatestSnapshots scans every resolver for changing revisions so
	// that the freshest publication wins instead of the first hit.
	PreferLatestSnapshots bool

	// ChangingPattern is the glob matched against revisions to classify
	// them as changing. Empty selects the default snapshot pattern.
	ChangingPattern string

	// SelfResolverName names the resolver serving the workspace's own
	// modules. Its answers are acceptable without a locatable artifact.
	SelfResolverName string

	// DualPurpose marks the chain as its own artifact resolver, causing
	// freshly selected revisions to be re-attributed to the chain.
	DualPurpose bool
}

// Engine resolves dependency requests against an ordered resolver chain.
//
// An Engine carries no per-request state, but the algorithm is strictly
// sequential: at most one resolution may be in flight per engine instance,
// and the caller is responsible for that serialization.
type Engine struct {
	opts   Options
	log    ports.Logger
	tracer ports.Tracer
}

// NewEngine creates an Engine with the given chain options.
func NewEngine(opts Options, log ports.Logger, tracer ports.Tracer) *Engine {
	return &Engine{
		opts:   opts,
		log:    log,
		tracer: tracer,
	}
}

// candidate pairs a revision with the resolver that produced it.
type candidate struct {
	rev      *domain.ResolvedRevision
	resolver ports.Resolver
}

// failure records a resolver error without aborting the iteration.
type failure struct {
	name string
	err  error
}

// Resolve answers req by consulting resolvers in declared order.
//
// prior carries a revision already resolved earlier in the same run and
// short-circuits the chain for non-changing revisions. cache may be nil to
// force a refresh. A nil revision with a nil error means no resolver knows
// the module.
func (e *Engine) Resolve(
	ctx context.Context,
	req domain.DependencyRequest,
	resolvers []ports.Resolver,
	cache ports.RevisionCache,
	prior *domain.ResolvedRevision,
) (*domain.ResolvedRevision, error) {
	ctx, span := e.tracer.Start(ctx, "resolve "+req.ID.String())
	defer span.End()
	span.SetAttribute("moor.revision", req.Revision)

	// A changing revision must not pin to stale cache or prior data, so it
	// triggers a scan across every resolver.
	scanAll := req.IsChanging(e.opts.ChangingPattern) && e.opts.PreferLatestSnapshots
	span.SetAttribute("moor.scan_all", strconv.FormatBool(scanAll))

	cachedOrPrior := prior
	if cachedOrPrior == nil && cache != nil {
		cached, err := cache.Lookup(ctx, req)
		switch {
		case err != nil:
			// A cache read failure downgrades to a miss; the chain can
			// still answer from its resolvers.
			e.log.Warn("revision cache lookup failed for " + req.Key() + ": " + err.Error())
		case cached != nil:
			// Cached revisions are trusted as-is and exempt from further
			// latest comparisons.
			cachedOrPrior = cached.WithForced()
		}
	}

	best := cachedOrPrior
	if scanAll {
		best = nil
	}

	var (
		candidates  []candidate
		failures    []failure
		interrupted bool
	)

	for _, r := range resolvers {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if e.opts.ReturnFirst && best != nil && !scanAll {
			continue
		}

		found, err := e.attempt(ctx, r, req, best, scanAll)
		if err != nil {
			failures = append(failures, failure{name: r.Name(), err: err})
			continue
		}
		if found == nil || found == best {
			continue
		}

		if !scanAll {
			// Outside a scan the newest answer wins outright, so it is
			// authoritative the moment it is recorded.
			found = found.WithForced()
		}
		candidates = append(candidates, candidate{rev: found, resolver: r})
		best = found
	}

	selected, winner := selectCandidate(candidates, cachedOrPrior, scanAll)

	if interrupted {
		// Return whatever has accumulated. Scan side effects are skipped
		// because the remaining resolvers were never consulted.
		if selected != nil {
			return e.finalize(selected, cachedOrPrior), nil
		}
		err := zerr.With(zerr.Wrap(ctx.Err(), "resolution interrupted"), "module", req.Key())
		span.RecordError(err)
		return nil, err
	}

	if winner != nil {
		if err := e.materialize(ctx, req, winner, cache); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if selected == nil {
		if err := aggregate(req, failures); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return nil, nil
	}

	return e.finalize(selected, cachedOrPrior), nil
}

// attempt invokes one resolver. Outside a scan the current best revision is
// the resolver's context, letting it defer to an earlier answer. During a
// scan the resolver is consulted without context so it answers from its own
// holdings, with its latest strategy overridden to publication time for the
// duration of the call.
func (e *Engine) attempt(
	ctx context.Context,
	r ports.Resolver,
	req domain.DependencyRequest,
	current *domain.ResolvedRevision,
	scanAll bool,
) (*domain.ResolvedRevision, error) {
	if !scanAll {
		return r.Resolve(ctx, req, current)
	}

	if sr, ok := r.(ports.StrategyResolver); ok {
		prev := sr.LatestStrategy()
		sr.SetLatestStrategy(domain.LatestTime{})
		defer sr.SetLatestStrategy(prev)
	}
	return r.Resolve(ctx, req, nil)
}

// selectCandidate picks the revision the iteration settled on. During a scan
// the freshest publication wins, with ties broken towards the earlier
// resolver. Otherwise the last recorded candidate stands, falling back to
// the cached or prior value when the iteration produced nothing new. The
// returned winner is non-nil only for a scan with candidates.
func selectCandidate(
	candidates []candidate,
	cachedOrPrior *domain.ResolvedRevision,
	scanAll bool,
) (*domain.ResolvedRevision, *candidate) {
	if len(candidates) == 0 {
		return cachedOrPrior, nil
	}
	if scanAll {
		winner := latestCandidate(candidates)
		return winner.rev, winner
	}
	return candidates[len(candidates)-1].rev, nil
}

// latestCandidate returns the candidate with the newest publication
// timestamp. Ties go to the resolver declared earlier.
func latestCandidate(candidates []candidate) *candidate {
	var winner *candidate
	for i := range candidates {
		c := &candidates[i]
		if winner == nil || c.rev.Published().After(winner.rev.Published()) {
			winner = c
		}
	}
	return winner
}

// materialize locates an artifact for the scan winner and registers its
// origin with the cache. The workspace's own resolver may answer with
// metadata only; any other resolver without a locatable artifact is fatal
// for the request.
func (e *Engine) materialize(
	ctx context.Context,
	req domain.DependencyRequest,
	winner *candidate,
	cache ports.RevisionCache,
) error {
	name := winner.resolver.Name()

	origin, err := winner.resolver.Locate(ctx, winner.rev)
	if err == nil && origin != nil {
		if cache != nil {
			if rerr := cache.RegisterOrigin(ctx, name, req, *origin); rerr != nil {
				e.log.Warn("failed to register artifact origin for " + req.Key() + ": " + rerr.Error())
			}
		}
		return nil
	}

	if name == e.opts.SelfResolverName {
		return nil
	}

	if err != nil {
		return zerr.With(zerr.With(
			zerr.Wrap(err, domain.ErrUnlocatableArtifact.Error()),
			"module", req.Key()),
			"resolver", name,
		)
	}
	return zerr.With(zerr.With(domain.ErrUnlocatableArtifact, "module", req.Key()), "resolver", name)
}

// aggregate reduces captured resolver failures once the chain has settled on
// nothing. A single failure surfaces verbatim. Several are combined into one
// error naming every failing resolver, with each cause preserved in the
// chain.
func aggregate(req domain.DependencyRequest, failures []failure) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0].err
	}

	names := make([]string, len(failures))
	causes := make([]error, 0, len(failures)+1)
	causes = append(causes, domain.ErrAllResolversFailed)
	for i, f := range failures {
		names[i] = f.name
		causes = append(causes, f.err)
	}

	joined := strings.Join(names, ", ")
	return zerr.With(zerr.With(
		zerr.Wrap(errors.Join(causes...), "all resolvers failed: "+joined),
		"module", req.Key()),
		"resolvers", joined,
	)
}

// finalize wraps a freshly selected revision as forced and, for a
// dual-purpose chain, re-attributes artifact resolution to the chain itself.
// A revision that was already resolved before this call passes through
// untouched.
func (e *Engine) finalize(selected, cachedOrPrior *domain.ResolvedRevision) *domain.ResolvedRevision {
	if selected == cachedOrPrior {
		return selected
	}

	out := selected.WithForced()
	if e.opts.DualPurpose {
		out = out.WithArtifactResolver(e.opts.Name)
	}
	return out
}
