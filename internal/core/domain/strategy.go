package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// LatestStrategy decides which of two resolved revisions is the better
// answer for a floating revision selector.
type LatestStrategy interface {
	// Name returns the strategy's configuration name.
	Name() string
	// Prefer reports whether candidate should replace current. current may
	// be nil when no revision has been selected yet.
	Prefer(current, candidate *ResolvedRevision) bool
}

// LatestTime prefers the revision with the most recent publication
// timestamp. It is the strategy forced onto resolvers while scanning all
// sources for a changing module.
type LatestTime struct{}

// Name returns "latest-time".
func (LatestTime) Name() string { return "latest-time" }

// Prefer reports whether candidate was published after current.
func (LatestTime) Prefer(current, candidate *ResolvedRevision) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return candidate.Published().After(current.Published())
}

// LatestRevision prefers the highest revision by semantic version order,
// falling back to lexicographic comparison for revisions that do not parse
// as semantic versions.
type LatestRevision struct{}

// Name returns "latest-revision".
func (LatestRevision) Name() string { return "latest-revision" }

// Prefer reports whether candidate's revision orders after current's.
func (LatestRevision) Prefer(current, candidate *ResolvedRevision) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	return CompareRevisions(candidate.Revision(), current.Revision()) > 0
}

// CompareRevisions orders two revision strings. Both parsing as semantic
// versions compare semantically; otherwise the comparison is lexicographic.
func CompareRevisions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

// StrategyByName resolves a configured strategy name. The empty string
// selects LatestRevision.
func StrategyByName(name string) (LatestStrategy, error) {
	switch name {
	case "", LatestRevision{}.Name():
		return LatestRevision{}, nil
	case LatestTime{}.Name():
		return LatestTime{}, nil
	default:
		return nil, zerr.With(ErrUnknownStrategy, "strategy", name)
	}
}
