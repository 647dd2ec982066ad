// Package store implements the revision cache as a single JSON document
// under the workspace cache directory. Entries are keyed by dependency
// identity; artifact origins registered during resolution live in the same
// document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.RevisionCache on one revisions.json document. Every
// write persists the whole document atomically; lookups materialize fresh
// values so callers never share state with the store.
type Store struct {
	path string

	mu  sync.RWMutex
	doc document
}

// New loads the revision cache at path. A missing file starts an empty
// cache; an unreadable or corrupt one is an error.
func New(path string) (*Store, error) {
	s := &Store{path: path, doc: newDocument()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns the cached revision for the request, or nil when the
// request was never cached.
func (s *Store) Lookup(_ context.Context, req domain.DependencyRequest) (*domain.ResolvedRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.doc.Revisions[fingerprint(req)]
	if !ok {
		return nil, nil
	}
	return record.revision(), nil
}

// Put stores the resolved revision for the request and persists the
// document.
func (s *Store) Put(_ context.Context, req domain.DependencyRequest, rev *domain.ResolvedRevision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Revisions[fingerprint(req)] = newRevisionRecord(req, rev)
	return s.save()
}

// RegisterOrigin records where the named resolver found an artifact for the
// request, replacing any origin the same resolver registered before.
func (s *Store) RegisterOrigin(_ context.Context, resolverName string, req domain.DependencyRequest, origin domain.ArtifactOrigin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fingerprint(req)
	record := originRecord{Resolver: resolverName, Location: origin.Location, Local: origin.Local}

	records := s.doc.Origins[key]
	for i := range records {
		if records[i].Resolver == resolverName {
			records[i] = record
			return s.save()
		}
	}
	s.doc.Origins[key] = append(records, record)
	return s.save()
}

// Origin returns the artifact origin registered for the request by the
// named resolver. An empty name matches the first registered origin. Nil
// means nothing was registered.
func (s *Store) Origin(req domain.DependencyRequest, resolverName string) *domain.ArtifactOrigin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.doc.Origins[fingerprint(req)] {
		if resolverName == "" || record.Resolver == resolverName {
			return &domain.ArtifactOrigin{Location: record.Location, Local: record.Local}
		}
	}
	return nil
}

func (s *Store) load() error {
	//nolint:gosec // path is the configured cache document
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return zerr.Wrap(err, domain.ErrCacheUnmarshalFailed.Error())
	}
	if doc.Revisions == nil {
		doc.Revisions = map[string]revisionRecord{}
	}
	if doc.Origins == nil {
		doc.Origins = map[string][]originRecord{}
	}
	s.doc = doc
	return nil
}

// save persists the document with a write-then-rename so a concurrent
// reader of the file never observes a partial document. Callers must hold
// mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".revisions-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// document is the on-disk shape of the cache.
type document struct {
	Revisions map[string]revisionRecord `json:"revisions"`
	Origins   map[string][]originRecord `json:"origins,omitempty"`
}

func newDocument() document {
	return document{
		Revisions: map[string]revisionRecord{},
		Origins:   map[string][]originRecord{},
	}
}

type revisionRecord struct {
	Request          string            `json:"request"`
	Org              string            `json:"org"`
	Name             string            `json:"name"`
	Revision         string            `json:"revision"`
	Description      string            `json:"description,omitempty"`
	Published        time.Time         `json:"published,omitzero"`
	Artifacts        []domain.Artifact `json:"artifacts,omitempty"`
	Resolver         string            `json:"resolver"`
	ArtifactResolver string            `json:"artifact_resolver,omitempty"`
}

func newRevisionRecord(req domain.DependencyRequest, rev *domain.ResolvedRevision) revisionRecord {
	desc := rev.Descriptor()
	return revisionRecord{
		Request:          req.Key(),
		Org:              desc.ID.Org.String(),
		Name:             desc.ID.Name.String(),
		Revision:         desc.Revision,
		Description:      desc.Description,
		Published:        desc.Published,
		Artifacts:        desc.Artifacts,
		Resolver:         rev.ResolverName(),
		ArtifactResolver: rev.ArtifactResolverName(),
	}
}

// revision materializes an independent ResolvedRevision from the record.
// The forced flag is not persisted; the engine re-forces cached answers on
// lookup.
func (r revisionRecord) revision() *domain.ResolvedRevision {
	rev := domain.NewResolvedRevision(domain.Descriptor{
		ID:          domain.NewModuleID(r.Org, r.Name),
		Revision:    r.Revision,
		Description: r.Description,
		Published:   r.Published,
		Artifacts:   slices.Clone(r.Artifacts),
	}, r.Resolver)

	if r.ArtifactResolver != "" && r.ArtifactResolver != r.Resolver {
		rev = rev.WithArtifactResolver(r.ArtifactResolver)
	}
	return rev
}

type originRecord struct {
	Resolver string `json:"resolver"`
	Location string `json:"location"`
	Local    bool   `json:"local,omitempty"`
}

// fingerprint keys cache entries by dependency identity.
func fingerprint(req domain.DependencyRequest) string {
	return strconv.FormatUint(xxhash.Sum64String(req.Key()), 16)
}
