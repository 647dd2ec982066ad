// Package fsrepo implements a module repository rooted in a local directory
// tree. Descriptors live at <root>/<org>/<name>/<revision>/module.yaml with
// artifact files next to them.
package fsrepo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/moor/internal/adapters/repo"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent descriptor reads while listing revisions.
const maxParallelReads = 8

// Repository is a ports.StrategyResolver over a local directory tree.
type Repository struct {
	name     string
	root     string
	strategy domain.LatestStrategy
	log      ports.Logger
}

// New creates a filesystem repository resolver.
func New(name, root string, strategy domain.LatestStrategy, log ports.Logger) *Repository {
	return &Repository{
		name:     name,
		root:     root,
		strategy: strategy,
		log:      log,
	}
}

// Name returns the resolver's configured name.
func (r *Repository) Name() string {
	return r.name
}

// LatestStrategy returns the resolver's current selection strategy.
func (r *Repository) LatestStrategy() domain.LatestStrategy {
	return r.strategy
}

// SetLatestStrategy replaces the resolver's selection strategy.
func (r *Repository) SetLatestStrategy(s domain.LatestStrategy) {
	r.strategy = s
}

// Resolve answers the request from the directory tree. A forced current
// revision is authoritative and echoed back untouched; otherwise the
// repository proposes its own find only when the strategy prefers it over
// the current one.
func (r *Repository) Resolve(ctx context.Context, req domain.DependencyRequest, current *domain.ResolvedRevision) (*domain.ResolvedRevision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if current != nil && current.Forced() {
		return current, nil
	}

	if !domain.IsFloatingRevision(req.Revision) {
		found, err := r.read(req.ID, req.Revision)
		if err != nil {
			return nil, err
		}
		if found == nil || current != nil {
			// Either nothing here, or the concrete revision is already
			// answered by an earlier resolver.
			return current, nil
		}
		return found, nil
	}

	candidates, err := r.list(ctx, req.ID, req.Revision)
	if err != nil {
		return nil, err
	}

	best := current
	for _, candidate := range candidates {
		if r.strategy.Prefer(best, candidate) {
			best = candidate
		}
	}
	return best, nil
}

// Locate returns the on-disk origin of the first declared artifact present
// in the revision's directory. Artifacts carrying an explicit URL are not
// served from disk and are skipped.
func (r *Repository) Locate(_ context.Context, rev *domain.ResolvedRevision) (*domain.ArtifactOrigin, error) {
	desc := rev.Descriptor()
	dir := r.revisionDir(desc.ID, desc.Revision)

	for _, artifact := range desc.Artifacts {
		if artifact.URL != "" {
			continue
		}
		path := filepath.Join(dir, artifact.FileName())
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
		}
		return &domain.ArtifactOrigin{Location: path, Local: true}, nil
	}
	return nil, nil
}

// list collects all published revisions of the module matching the selector.
// Unreadable or malformed descriptors are logged and skipped so one bad
// revision does not hide the rest of the repository.
func (r *Repository) list(ctx context.Context, id domain.ModuleID, selector string) ([]*domain.ResolvedRevision, error) {
	moduleDir := filepath.Join(r.root, id.Org.String(), id.Name.String())
	entries, err := os.ReadDir(moduleDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRevisionListFailed.Error()), "module", id.String())
	}

	var mu sync.Mutex
	var found []*domain.ResolvedRevision

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)

	for _, entry := range entries {
		if !entry.IsDir() || !domain.RevisionMatches(selector, entry.Name()) {
			continue
		}
		revision := entry.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			candidate, err := r.read(id, revision)
			if err != nil {
				r.log.Warn("skipping unreadable revision " + id.String() + "@" + revision + ": " + err.Error())
				return nil
			}
			if candidate == nil {
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

	// Parallel reads land in arbitrary order; sort for deterministic
	// strategy tie-breaking.
	slices.SortFunc(found, func(a, b *domain.ResolvedRevision) int {
		return strings.Compare(a.Revision(), b.Revision())
	})
	return found, nil
}

// read loads one revision's descriptor. A missing descriptor is not an
// error. A descriptor whose declared identity disagrees with its location
// is rejected.
func (r *Repository) read(id domain.ModuleID, revision string) (*domain.ResolvedRevision, error) {
	path := filepath.Join(r.revisionDir(id, revision), domain.DescriptorFileName)

	//nolint:gosec // path is rooted in the configured repository directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDescriptorReadFailed.Error()), "path", path)
	}

	desc, err := repo.ParseDescriptor(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if desc.ID != id || desc.Revision != revision {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrDescriptorInvalid,
			"path", path),
			"declared", desc.ID.String()+"@"+desc.Revision),
			"expected", id.String()+"@"+revision,
		)
	}

	if desc.Published.IsZero() {
		if st, err := os.Stat(path); err == nil {
			desc.Published = st.ModTime()
		}
	}

	return domain.NewResolvedRevision(desc, r.name), nil
}

func (r *Repository) revisionDir(id domain.ModuleID, revision string) string {
	return filepath.Join(r.root, id.Org.String(), id.Name.String(), revision)
}
