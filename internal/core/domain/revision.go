package domain

import (
	"slices"
	"time"
)

// Descriptor is the module metadata a resolver found for a concrete revision.
type Descriptor struct {
	// ID is the module identity the descriptor belongs to.
	ID ModuleID
	// Revision is the concrete published revision.
	Revision string
	// Description is free-form text from the descriptor file.
	Description string
	// Published is the publication timestamp of this revision.
	Published time.Time
	// Artifacts lists the files published for this revision.
	Artifacts []Artifact
}

// Equal reports whether two descriptors are identical in all fields.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.ID == other.ID &&
		d.Revision == other.Revision &&
		d.Description == other.Description &&
		d.Published.Equal(other.Published) &&
		slices.Equal(d.Artifacts, other.Artifacts)
}

// ResolvedRevision is the authoritative answer for one dependency request:
// the descriptor that was found, the resolver that produced it, and the
// resolver that will later fetch its artifacts. Values are strictly
// immutable; the With methods return fresh values so callers holding an
// older ResolvedRevision never observe a change.
type ResolvedRevision struct {
	desc             Descriptor
	resolver         string
	artifactResolver string
	forced           bool
}

// NewResolvedRevision creates a ResolvedRevision produced by the named
// resolver. The artifact resolver initially equals the producer.
func NewResolvedRevision(desc Descriptor, resolver string) *ResolvedRevision {
	return &ResolvedRevision{
		desc:             desc,
		resolver:         resolver,
		artifactResolver: resolver,
	}
}

// Descriptor returns the module metadata of the resolved revision.
func (r *ResolvedRevision) Descriptor() Descriptor {
	d := r.desc
	d.Artifacts = slices.Clone(d.Artifacts)
	return d
}

// ID returns the resolved module identity.
func (r *ResolvedRevision) ID() ModuleID {
	return r.desc.ID
}

// Revision returns the concrete resolved revision string.
func (r *ResolvedRevision) Revision() string {
	return r.desc.Revision
}

// Published returns the publication timestamp of the resolved revision.
func (r *ResolvedRevision) Published() time.Time {
	return r.desc.Published
}

// ResolverName returns the name of the resolver that produced the revision.
func (r *ResolvedRevision) ResolverName() string {
	return r.resolver
}

// ArtifactResolverName returns the name of the resolver designated to fetch
// the revision's artifacts.
func (r *ResolvedRevision) ArtifactResolverName() string {
	return r.artifactResolver
}

// Forced reports whether the revision has been chosen as authoritative and
// is exempt from further latest-strategy comparison.
func (r *ResolvedRevision) Forced() bool {
	return r.forced
}

// WithForced returns a revision marked as authoritative. Once set, the flag
// is never cleared; calling WithForced on an already forced revision returns
// the receiver unchanged.
func (r *ResolvedRevision) WithForced() *ResolvedRevision {
	if r.forced {
		return r
	}
	out := *r
	out.forced = true
	return &out
}

// WithResolver returns a copy attributed to a different producing resolver.
func (r *ResolvedRevision) WithResolver(name string) *ResolvedRevision {
	if r.resolver == name {
		return r
	}
	out := *r
	out.resolver = name
	return &out
}

// WithArtifactResolver returns a copy with a different artifact resolver.
func (r *ResolvedRevision) WithArtifactResolver(name string) *ResolvedRevision {
	if r.artifactResolver == name {
		return r
	}
	out := *r
	out.artifactResolver = name
	return &out
}

// SameRevision reports whether two resolved revisions identify the same
// module revision, regardless of attribution or flags.
func (r *ResolvedRevision) SameRevision(other *ResolvedRevision) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.desc.ID == other.desc.ID && r.desc.Revision == other.desc.Revision
}

// EqualFields reports whether two resolved revisions agree in every
// observable field. Distinct values may be equal in all fields.
func (r *ResolvedRevision) EqualFields(other *ResolvedRevision) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.desc.Equal(other.desc) &&
		r.resolver == other.resolver &&
		r.artifactResolver == other.artifactResolver &&
		r.forced == other.forced
}
