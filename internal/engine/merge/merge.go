// Package merge consolidates duplicate dependency declarations before a
// module descriptor is assembled. Declarations that target the same module
// and are structurally compatible collapse into a single request; anything
// else passes through untouched.
package merge

import (
	"slices"

	"go.trai.ch/moor/internal/core/domain"
)

// Requests groups the given requests by module identity and folds each fully
// compatible group into one request. Group order follows the first occurrence
// of each module, and members of a group that cannot be folded are kept
// unmodified in their original relative order.
//
// The second return value lists the modules whose duplicate declarations were
// incompatible. Keeping the duplicates is not an error, but callers are
// expected to warn about them.
func Requests(requests []domain.DependencyRequest) ([]domain.DependencyRequest, []domain.ModuleID) {
	if len(requests) < 2 {
		return requests, nil
	}

	order := make([]domain.ModuleID, 0, len(requests))
	groups := make(map[domain.ModuleID][]domain.DependencyRequest, len(requests))
	for _, req := range requests {
		if _, seen := groups[req.ID]; !seen {
			order = append(order, req.ID)
		}
		groups[req.ID] = append(groups[req.ID], req)
	}

	merged := make([]domain.DependencyRequest, 0, len(order))
	var incompatible []domain.ModuleID

	for _, id := range order {
		group := groups[id]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}

		if !compatible(group) {
			merged = append(merged, group...)
			incompatible = append(incompatible, id)
			continue
		}

		merged = append(merged, fold(group))
	}

	return merged, incompatible
}

// compatible reports whether every pair of members in the group can be
// folded. Compatibility must hold across the whole group, not just between
// neighbours, so a single deviating member keeps the entire group apart.
func compatible(group []domain.DependencyRequest) bool {
	first := group[0]
	for _, req := range group[1:] {
		if req.Force != first.Force ||
			req.Transitive != first.Transitive ||
			req.Changing != first.Changing ||
			req.Revision != first.Revision {
			return false
		}
	}

	return !conflictingArtifacts(group)
}

// conflictingArtifacts reports whether two members of the group declare an
// artifact with the same coordinates but a different URL. Such declarations
// cannot be unioned without silently dropping one of the locations.
func conflictingArtifacts(group []domain.DependencyRequest) bool {
	urls := make(map[domain.Artifact]string)
	for _, req := range group {
		for _, art := range req.Artifacts {
			key := art
			key.URL = ""
			if url, ok := urls[key]; ok && url != art.URL {
				return true
			}
			urls[key] = art.URL
		}
	}
	return false
}

// fold collapses a compatible group into a single request. Artifacts and
// exclusions are unioned as sets, configuration mappings are unioned with
// duplicate targets collapsed, and ordering within each union follows first
// occurrence across the group.
func fold(group []domain.DependencyRequest) domain.DependencyRequest {
	out := group[0].Clone()
	for _, req := range group[1:] {
		out.Configurations = out.Configurations.Union(req.Configurations)
		for _, art := range req.Artifacts {
			if !slices.Contains(out.Artifacts, art) {
				out.Artifacts = append(out.Artifacts, art)
			}
		}
		for _, excl := range req.Exclusions {
			if !slices.Contains(out.Exclusions, excl) {
				out.Exclusions = append(out.Exclusions, excl)
			}
		}
	}
	return out
}
