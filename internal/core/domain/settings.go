package domain

// RepositoryKind identifies how a configured repository locates modules.
type RepositoryKind string

const (
	// RepoKindFS is a directory tree of module descriptors and artifacts.
	RepoKindFS RepositoryKind = "fs"
	// RepoKindHTTP is a remote repository spoken to over HTTP.
	RepoKindHTTP RepositoryKind = "http"
	// RepoKindProject answers for modules declared in the workspace itself.
	RepoKindProject RepositoryKind = "project"
	// RepoKindChain groups nested repositories into one ordered source.
	RepoKindChain RepositoryKind = "chain"
)

// RepositorySpec is the configuration of one resolver in the chain. Exactly
// one of Path, URL, or Repositories is meaningful depending on Kind.
type RepositorySpec struct {
	// Name is the unique resolver name used in attribution and errors.
	Name string
	// Kind selects the resolver implementation.
	Kind RepositoryKind
	// Path is the repository root directory for fs repositories.
	Path string
	// URL is the repository base URL for http repositories.
	URL string
	// Strategy names the latest-selection strategy, empty for the default.
	Strategy string
	// ReturnFirst stops a chain at the first sub-repository that answers.
	ReturnFirst bool
	// Repositories are the ordered members of a chain repository.
	Repositories []RepositorySpec
}

// Settings is the parsed workspace configuration from moorfile.yaml.
type Settings struct {
	// Workspace is the workspace name.
	Workspace string
	// Root is the directory containing the settings file.
	Root string
	// CacheDir is the resolved cache directory, absolute.
	CacheDir string
	// ChangingPattern is the revision glob marking changing modules.
	ChangingPattern string
	// PreferLatestSnapshots scans every repository for changing modules
	// instead of trusting the first hit.
	PreferLatestSnapshots bool
	// ReturnFirst stops top-level resolution at the first answer.
	ReturnFirst bool
	// Repositories is the ordered resolver chain.
	Repositories []RepositorySpec
	// Modules are the modules published by the workspace itself.
	Modules []Descriptor
	// Dependencies are the declared dependency requests, in file order.
	Dependencies []DependencyRequest
}
