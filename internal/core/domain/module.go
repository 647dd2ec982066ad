// Package domain contains the core value types for dependency resolution.
package domain

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ModuleID identifies a module by organization and name. It is the identity
// used when merging duplicate declarations; the requested revision is not
// part of it.
type ModuleID struct {
	Org  InternedString
	Name InternedString
}

// NewModuleID creates a ModuleID from raw organization and name strings.
func NewModuleID(org, name string) ModuleID {
	return ModuleID{
		Org:  NewInternedString(org),
		Name: NewInternedString(name),
	}
}

// String returns the canonical "org/name" form.
func (id ModuleID) String() string {
	return id.Org.String() + "/" + id.Name.String()
}

// IsZero reports whether the ModuleID was never initialized.
func (id ModuleID) IsZero() bool {
	return id.Org.IsZero() && id.Name.IsZero()
}

// DefaultChangingPattern is the revision glob that marks a module as
// changing when no pattern is configured.
const DefaultChangingPattern = "*-SNAPSHOT"

// LatestSelector is the revision selector that matches every published
// revision, leaving the choice to the resolver's latest strategy.
const LatestSelector = "latest"

// IsChangingRevision reports whether the revision matches the changing
// pattern. An empty pattern falls back to DefaultChangingPattern.
func IsChangingRevision(revision, pattern string) bool {
	if pattern == "" {
		pattern = DefaultChangingPattern
	}
	ok, err := doublestar.Match(pattern, revision)
	return err == nil && ok
}

// IsFloatingRevision reports whether the revision is a selector rather than
// a concrete revision: the "latest" keyword or a glob expression.
func IsFloatingRevision(revision string) bool {
	return revision == LatestSelector || strings.ContainsAny(revision, "*?[{")
}

// RevisionMatches reports whether a concrete revision satisfies a selector.
// Concrete selectors require equality; floating selectors match by glob,
// with "latest" accepting any revision.
func RevisionMatches(selector, revision string) bool {
	if selector == LatestSelector {
		return true
	}
	if !IsFloatingRevision(selector) {
		return selector == revision
	}
	ok, err := doublestar.Match(selector, revision)
	return err == nil && ok
}
