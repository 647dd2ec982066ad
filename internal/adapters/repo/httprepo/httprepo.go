// Package httprepo implements a module repository spoken to over HTTP. The
// remote lays out descriptors at <base>/<org>/<name>/<revision>/module.yaml
// and lists published revisions in <base>/<org>/<name>/index.yaml.
// Successful metadata responses are cached on disk for a short window to
// keep repeated resolutions off the network.
package httprepo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/moor/internal/adapters/repo"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// requestTimeout bounds every repository round trip.
	requestTimeout = 30 * time.Second

	// maxParallelFetches bounds concurrent descriptor fetches while
	// resolving a floating revision.
	maxParallelFetches = 4
)

// Options configures an HTTP repository resolver.
type Options struct {
	// Name is the resolver name used in attribution and errors.
	Name string
	// BaseURL is the repository root. A trailing slash is stripped.
	BaseURL string
	// Strategy selects among multiple matching revisions.
	Strategy domain.LatestStrategy
	// ChangingPattern marks revisions whose cached metadata must not be
	// trusted between resolutions.
	ChangingPattern string
	// MetaDir is the on-disk metadata cache directory. Empty disables
	// metadata caching.
	MetaDir string
}

// Repository is a ports.StrategyResolver over a remote HTTP repository.
type Repository struct {
	opts   Options
	client *http.Client
	meta   *metaCache
	log    ports.Logger
}

// New creates an HTTP repository resolver.
func New(opts Options, log ports.Logger) *Repository {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Repository{
		opts:   opts,
		client: &http.Client{Timeout: requestTimeout},
		meta:   newMetaCache(opts.MetaDir),
		log:    log,
	}
}

// Name returns the resolver's configured name.
func (r *Repository) Name() string {
	return r.opts.Name
}

// LatestStrategy returns the resolver's current selection strategy.
func (r *Repository) LatestStrategy() domain.LatestStrategy {
	return r.opts.Strategy
}

// SetLatestStrategy replaces the resolver's selection strategy.
func (r *Repository) SetLatestStrategy(s domain.LatestStrategy) {
	r.opts.Strategy = s
}

// Resolve answers the request from the remote repository. A forced current
// revision is echoed back untouched. Changing requests bypass the metadata
// cache so a republished snapshot is always observed.
func (r *Repository) Resolve(ctx context.Context, req domain.DependencyRequest, current *domain.ResolvedRevision) (*domain.ResolvedRevision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if current != nil && current.Forced() {
		return current, nil
	}

	fresh := req.IsChanging(r.opts.ChangingPattern)

	if !domain.IsFloatingRevision(req.Revision) {
		found, err := r.fetchDescriptor(ctx, req.ID, req.Revision, fresh)
		if err != nil {
			return nil, err
		}
		if found == nil || current != nil {
			return current, nil
		}
		return found, nil
	}

	revisions, err := r.fetchIndex(ctx, req.ID, fresh)
	if err != nil {
		return nil, err
	}

	candidates, err := r.fetchMatching(ctx, req.ID, revisions, req.Revision, fresh)
	if err != nil {
		return nil, err
	}

	best := current
	for _, candidate := range candidates {
		if r.opts.Strategy.Prefer(best, candidate) {
			best = candidate
		}
	}
	return best, nil
}

// Locate produces the download origin for the revision's first reachable
// artifact. Explicit artifact URLs win over repository layout; layout URLs
// are probed with a HEAD request.
func (r *Repository) Locate(ctx context.Context, rev *domain.ResolvedRevision) (*domain.ArtifactOrigin, error) {
	desc := rev.Descriptor()
	for _, artifact := range desc.Artifacts {
		if artifact.URL != "" {
			return &domain.ArtifactOrigin{Location: artifact.URL, Local: false}, nil
		}

		url := r.revisionURL(desc.ID, desc.Revision) + "/" + artifact.FileName()
		exists, err := r.exists(ctx, url)
		if err != nil {
			return nil, err
		}
		if exists {
			return &domain.ArtifactOrigin{Location: url, Local: false}, nil
		}
	}
	return nil, nil
}

// fetchMatching loads the descriptors of all indexed revisions matching the
// selector. Transport failures abort the listing; a malformed descriptor is
// logged and skipped.
func (r *Repository) fetchMatching(ctx context.Context, id domain.ModuleID, revisions []string, selector string, fresh bool) ([]*domain.ResolvedRevision, error) {
	var mu sync.Mutex
	var found []*domain.ResolvedRevision

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)

	for _, revision := range revisions {
		if !domain.RevisionMatches(selector, revision) {
			continue
		}
		g.Go(func() error {
			candidate, err := r.fetchDescriptor(ctx, id, revision, fresh)
			if err != nil {
				if errors.Is(err, domain.ErrRepoRequestFailed) {
					return err
				}
				r.log.Warn("skipping unreadable revision " + id.String() + "@" + revision + ": " + err.Error())
				return nil
			}
			if candidate == nil {
				r.log.Warn("revision " + id.String() + "@" + revision + " is indexed but has no descriptor")
				return nil
			}
			mu.Lock()
			found = append(found, candidate)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Parallel fetches land in arbitrary order; sort for deterministic
	// strategy tie-breaking.
	slices.SortFunc(found, func(a, b *domain.ResolvedRevision) int {
		return strings.Compare(a.Revision(), b.Revision())
	})
	return found, nil
}

// fetchDescriptor loads one revision's descriptor. A 404 is not an error.
// The descriptor's declared identity must agree with the URL it was fetched
// from. A missing publication timestamp falls back to the response's
// Last-Modified header.
func (r *Repository) fetchDescriptor(ctx context.Context, id domain.ModuleID, revision string, fresh bool) (*domain.ResolvedRevision, error) {
	url := r.revisionURL(id, revision) + "/" + domain.DescriptorFileName
	data, lastModified, err := r.get(ctx, url, fresh)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	desc, err := repo.ParseDescriptor(data)
	if err != nil {
		return nil, zerr.With(err, "url", url)
	}
	if desc.ID != id || desc.Revision != revision {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrDescriptorInvalid,
			"url", url),
			"declared", desc.ID.String()+"@"+desc.Revision),
			"expected", id.String()+"@"+revision,
		)
	}

	if desc.Published.IsZero() {
		desc.Published = lastModified
	}

	return domain.NewResolvedRevision(desc, r.opts.Name), nil
}

// fetchIndex loads the module's revision index. A 404 means the module is
// not published here.
func (r *Repository) fetchIndex(ctx context.Context, id domain.ModuleID, fresh bool) ([]string, error) {
	url := r.moduleURL(id) + "/" + domain.IndexFileName
	data, _, err := r.get(ctx, url, fresh)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	revisions, err := repo.ParseIndex(data)
	if err != nil {
		return nil, zerr.With(err, "url", url)
	}
	return revisions, nil
}

// get returns the body of the URL, consulting the metadata cache unless the
// caller demands a fresh fetch. Fetched bodies refresh the cache either way.
func (r *Repository) get(ctx context.Context, url string, fresh bool) ([]byte, time.Time, error) {
	if r.meta != nil && !fresh {
		if body, lastModified, ok := r.meta.lookup(url); ok {
			return body, lastModified, nil
		}
	}

	body, lastModified, err := r.fetch(ctx, url)
	if err != nil || body == nil {
		return nil, time.Time{}, err
	}

	if r.meta != nil {
		if err := r.meta.store(url, body, lastModified); err != nil {
			r.log.Warn("failed to cache repository metadata: " + err.Error())
		}
	}
	return body, lastModified, nil
}

func (r *Repository) fetch(ctx context.Context, url string) ([]byte, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, time.Time{}, zerr.With(zerr.Wrap(err, "failed to build repository request"), "url", url)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, time.Time{}, r.requestErr(err, url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, time.Time{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, zerr.With(zerr.With(domain.ErrRepoRequestFailed, "url", url), "status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, r.requestErr(err, url)
	}

	var lastModified time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if parsed, err := http.ParseTime(lm); err == nil {
			lastModified = parsed
		}
	}
	return data, lastModified, nil
}

// exists probes the URL with a HEAD request. Servers that reject HEAD are
// assumed to have the artifact.
func (r *Repository) exists(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to build repository request"), "url", url)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, r.requestErr(err, url)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMethodNotAllowed:
		return true, nil
	default:
		return false, nil
	}
}

// requestErr wraps a transport failure so callers can match it against
// domain.ErrRepoRequestFailed.
func (r *Repository) requestErr(err error, url string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrRepoRequestFailed, err), domain.ErrRepoRequestFailed.Error()), "url", url)
}

func (r *Repository) moduleURL(id domain.ModuleID) string {
	return r.opts.BaseURL + "/" + id.Org.String() + "/" + id.Name.String()
}

func (r *Repository) revisionURL(id domain.ModuleID, revision string) string {
	return r.moduleURL(id) + "/" + revision
}
