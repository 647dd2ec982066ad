package domain

import "path/filepath"

const (
	// MoorDirName is the name of the internal workspace directory.
	MoorDirName = ".moor"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// MetaDirName is the name of the repository metadata cache directory.
	MetaDirName = "meta"

	// RevisionsFileName is the name of the revision cache file.
	RevisionsFileName = "revisions.json"

	// SettingsFileName is the name of the workspace settings file.
	SettingsFileName = "moorfile.yaml"

	// LockFileName is the name of the resolution lock file.
	LockFileName = "moor.lock.yaml"

	// DescriptorFileName is the name of a module descriptor inside a repository.
	DescriptorFileName = "module.yaml"

	// IndexFileName is the name of a module's revision index inside an http repository.
	IndexFileName = "index.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultMoorPath returns the default root directory for moor metadata.
func DefaultMoorPath() string {
	return MoorDirName
}

// DefaultCachePath returns the default cache directory.
// It joins .moor and cache.
func DefaultCachePath() string {
	return filepath.Join(MoorDirName, CacheDirName)
}

// DefaultRevisionCachePath returns the default path of the revision cache file.
// It joins .moor, cache, and revisions.json.
func DefaultRevisionCachePath() string {
	return filepath.Join(MoorDirName, CacheDirName, RevisionsFileName)
}

// DefaultMetaCachePath returns the default path of the repository metadata cache.
// It joins .moor, cache, and meta.
func DefaultMetaCachePath() string {
	return filepath.Join(MoorDirName, CacheDirName, MetaDirName)
}
