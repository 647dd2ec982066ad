package domain

import (
	"maps"
	"slices"
)

// ConfigurationMapping maps a source configuration to the target
// configurations it pulls in, e.g. "test" -> ["default", "runtime"].
type ConfigurationMapping map[string][]string

// Clone returns an independent deep copy of the mapping.
func (m ConfigurationMapping) Clone() ConfigurationMapping {
	if m == nil {
		return nil
	}
	out := make(ConfigurationMapping, len(m))
	for src, targets := range m {
		out[src] = slices.Clone(targets)
	}
	return out
}

// Union merges another mapping into a copy of this one. Target lists are
// concatenated with duplicates collapsed, preserving first-seen order.
func (m ConfigurationMapping) Union(other ConfigurationMapping) ConfigurationMapping {
	if len(m) == 0 && len(other) == 0 {
		return nil
	}
	out := m.Clone()
	if out == nil {
		out = make(ConfigurationMapping, len(other))
	}
	for src, targets := range other {
		for _, t := range targets {
			if !slices.Contains(out[src], t) {
				out[src] = append(out[src], t)
			}
		}
	}
	return out
}

// Equal reports whether two mappings contain the same configurations with
// the same target lists, ignoring target order.
func (m ConfigurationMapping) Equal(other ConfigurationMapping) bool {
	return maps.EqualFunc(m, other, func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		as, bs := slices.Clone(a), slices.Clone(b)
		slices.Sort(as)
		slices.Sort(bs)
		return slices.Equal(as, bs)
	})
}

// SourceConfigurations returns the mapping's source configurations in
// sorted order.
func (m ConfigurationMapping) SourceConfigurations() []string {
	return slices.Sorted(maps.Keys(m))
}

// DependencyRequest is a single declared dependency. It is treated as
// immutable once built: operations that change it return a new value and
// never touch the slices or maps of the original.
type DependencyRequest struct {
	// ID is the module identity, shared by all declarations to merge.
	ID ModuleID
	// Revision is the requested revision: concrete, a glob selector, or
	// the "latest" keyword.
	Revision string
	// Transitive controls whether the module's own dependencies are pulled in.
	Transitive bool
	// Force pins this revision against conflict mediation.
	Force bool
	// Changing marks the revision's content as mutable over time.
	Changing bool
	// Configurations maps source configurations to target configurations.
	Configurations ConfigurationMapping
	// Artifacts restricts resolution to explicitly declared artifacts.
	Artifacts []Artifact
	// Exclusions filters transitive dependencies brought in by this module.
	Exclusions []ExclusionRule
}

// IsChanging reports whether the request must be treated as changing, either
// by declaration or because the revision matches the changing pattern.
func (r DependencyRequest) IsChanging(pattern string) bool {
	return r.Changing || IsChangingRevision(r.Revision, pattern)
}

// Key returns the human-readable "org/name@revision" form of the request.
func (r DependencyRequest) Key() string {
	return r.ID.String() + "@" + r.Revision
}

// Clone returns an independent deep copy of the request.
func (r DependencyRequest) Clone() DependencyRequest {
	out := r
	out.Configurations = r.Configurations.Clone()
	out.Artifacts = slices.Clone(r.Artifacts)
	out.Exclusions = slices.Clone(r.Exclusions)
	return out
}

// Equal reports whether two requests are structurally identical.
func (r DependencyRequest) Equal(other DependencyRequest) bool {
	return r.ID == other.ID &&
		r.Revision == other.Revision &&
		r.Transitive == other.Transitive &&
		r.Force == other.Force &&
		r.Changing == other.Changing &&
		r.Configurations.Equal(other.Configurations) &&
		slices.Equal(r.Artifacts, other.Artifacts) &&
		slices.Equal(r.Exclusions, other.Exclusions)
}
