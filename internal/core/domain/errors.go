package domain

import "go.trai.ch/zerr"

var (
	// ErrAllResolversFailed is returned when several resolvers errored and none produced a revision.
	ErrAllResolversFailed = zerr.New("all resolvers failed")

	// ErrUnlocatableArtifact is returned when the winning revision of a scan has no fetchable artifact.
	ErrUnlocatableArtifact = zerr.New("winning resolver has no locatable artifact")

	// ErrResolutionFailed is returned when one or more dependencies could not be resolved.
	ErrResolutionFailed = zerr.New("dependency resolution failed")

	// ErrUnknownStrategy is returned when a configured latest strategy name is not recognized.
	ErrUnknownStrategy = zerr.New("unknown latest strategy")

	// ErrUnknownRepositoryKind is returned when a repository kind is not recognized.
	ErrUnknownRepositoryKind = zerr.New("unknown repository kind")

	// ErrSettingsNotFound is returned when no moorfile.yaml exists in the directory tree.
	ErrSettingsNotFound = zerr.New("could not find moorfile")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrMissingWorkspaceName is returned when the settings file declares no workspace name.
	ErrMissingWorkspaceName = zerr.New("missing workspace name")

	// ErrInvalidWorkspaceName is returned when a workspace name contains invalid characters.
	ErrInvalidWorkspaceName = zerr.New("workspace name can only contain alphanumeric characters, hyphens and underscores")

	// ErrInvalidRepositoryName is returned when a repository name is empty or contains invalid characters.
	ErrInvalidRepositoryName = zerr.New("invalid repository name")

	// ErrDuplicateRepositoryName is returned when two repositories share a name.
	ErrDuplicateRepositoryName = zerr.New("duplicate repository name")

	// ErrMissingRepositoryPath is returned when an fs repository declares no path.
	ErrMissingRepositoryPath = zerr.New("fs repository requires a path")

	// ErrMissingRepositoryURL is returned when an http repository declares no URL.
	ErrMissingRepositoryURL = zerr.New("http repository requires a url")

	// ErrEmptyChain is returned when a chain repository has no members.
	ErrEmptyChain = zerr.New("chain repository has no members")

	// ErrMissingDependencyName is returned when a dependency declares no organization or name.
	ErrMissingDependencyName = zerr.New("dependency requires organization and name")

	// ErrMissingDependencyRevision is returned when a dependency declares no revision.
	ErrMissingDependencyRevision = zerr.New("dependency requires a revision")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheReadFailed is returned when the revision cache cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read revision cache")

	// ErrCacheWriteFailed is returned when the revision cache cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write revision cache")

	// ErrCacheMarshalFailed is returned when revision cache data cannot be marshaled.
	ErrCacheMarshalFailed = zerr.New("failed to marshal revision cache data")

	// ErrCacheUnmarshalFailed is returned when revision cache data cannot be unmarshaled.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal revision cache data")

	// ErrDescriptorReadFailed is returned when a module descriptor cannot be read.
	ErrDescriptorReadFailed = zerr.New("failed to read module descriptor")

	// ErrDescriptorParseFailed is returned when a module descriptor cannot be parsed.
	ErrDescriptorParseFailed = zerr.New("failed to parse module descriptor")

	// ErrDescriptorInvalid is returned when a module descriptor is missing required fields.
	ErrDescriptorInvalid = zerr.New("invalid module descriptor")

	// ErrRevisionListFailed is returned when listing the revisions of a module fails.
	ErrRevisionListFailed = zerr.New("failed to list module revisions")

	// ErrRepoRequestFailed is returned when a repository HTTP request fails.
	ErrRepoRequestFailed = zerr.New("repository request failed")

	// ErrLockWriteFailed is returned when the lock file cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrUnknownOutputFormat is returned when a report format is not recognized.
	ErrUnknownOutputFormat = zerr.New("unknown output format")

	// ErrWatchFailed is returned when watch mode cannot observe the workspace.
	ErrWatchFailed = zerr.New("failed to watch workspace")
)
