package httprepo_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/moor/internal/adapters/repo"
	"go.trai.ch/moor/internal/adapters/repo/httprepo"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeRemote serves a repository layout from memory and counts every
// request it answers.
type fakeRemote struct {
	t  *testing.T
	mu sync.Mutex

	files        map[string]string
	failing      map[string]int
	requests     map[string]int
	lastModified string

	server *httptest.Server
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()

	f := &fakeRemote{
		t:        t,
		files:    map[string]string{},
		failing:  map[string]int{},
		requests: map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	body, ok := f.files[r.URL.Path]
	status := f.failing[r.URL.Path]
	lastModified := f.lastModified
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if lastModified != "" {
		w.Header().Set("Last-Modified", lastModified)
	}
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeRemote) putDescriptor(desc domain.Descriptor) {
	f.t.Helper()

	data, err := repo.EncodeDescriptor(desc)
	require.NoError(f.t, err)
	f.put(descriptorPath(desc.ID.Org.String(), desc.ID.Name.String(), desc.Revision), string(data))
}

func (f *fakeRemote) putIndex(org, name string, revisions ...string) {
	f.t.Helper()

	data, err := repo.EncodeIndex(revisions)
	require.NoError(f.t, err)
	f.put("/"+org+"/"+name+"/"+domain.IndexFileName, string(data))
}

func (f *fakeRemote) put(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = body
}

func (f *fakeRemote) failWith(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = status
}

func (f *fakeRemote) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	sum := 0
	for _, n := range f.requests {
		sum += n
	}
	return sum
}

func descriptorPath(org, name, revision string) string {
	return "/" + org + "/" + name + "/" + revision + "/" + domain.DescriptorFileName
}

func newTestRepo(t *testing.T, remote *fakeRemote, opts httprepo.Options) (*httprepo.Repository, *mocks.MockLogger) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	opts.BaseURL = remote.server.URL
	if opts.Name == "" {
		opts.Name = "central"
	}
	if opts.Strategy == nil {
		opts.Strategy = domain.LatestRevision{}
	}
	return httprepo.New(opts, log), log
}

func request(org, name, revision string) domain.DependencyRequest {
	return domain.DependencyRequest{
		ID:         domain.NewModuleID(org, name),
		Revision:   revision,
		Transitive: true,
	}
}

func TestRepository_ResolveConcreteRevision(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:        domain.NewModuleID("acme", "core"),
		Revision:  "1.0.0",
		Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Artifacts: []domain.Artifact{{Name: "core", Type: "lib", Ext: "jar"}},
	})
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, domain.NewModuleID("acme", "core"), rev.ID())
	assert.Equal(t, "1.0.0", rev.Revision())
	assert.Equal(t, "central", rev.ResolverName())
}

func TestRepository_ResolveUnknownModule(t *testing.T) {
	remote := newFakeRemote(t)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev, err := rep.Resolve(t.Context(), request("acme", "ghost", "1.0.0"), nil)

	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestRepository_ForcedCurrentIsEchoed(t *testing.T) {
	remote := newFakeRemote(t)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	forced := domain.NewResolvedRevision(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "0.9.0",
	}, "other").WithForced()

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), forced)

	require.NoError(t, err)
	assert.Same(t, forced, rev)
	assert.Zero(t, remote.total(), "a forced revision must not touch the network")
}

func TestRepository_ConcreteWithCurrentEchoesCurrent(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "2.0.0",
	})
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	current := domain.NewResolvedRevision(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
	}, "other")

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "2.0.0"), current)

	require.NoError(t, err)
	assert.Same(t, current, rev)
}

func TestRepository_LatestPrefersHighestSemver(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putIndex("acme", "core", "1.2.0", "1.10.0", "1.9.0")
	for _, revision := range []string{"1.2.0", "1.10.0", "1.9.0"} {
		remote.putDescriptor(domain.Descriptor{
			ID:       domain.NewModuleID("acme", "core"),
			Revision: revision,
		})
	}
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "1.10.0", rev.Revision())
}

func TestRepository_GlobSelectorFiltersRevisions(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putIndex("acme", "core", "1.1.0", "2.0.0")
	for _, revision := range []string{"1.1.0", "2.0.0"} {
		remote.putDescriptor(domain.Descriptor{
			ID:       domain.NewModuleID("acme", "core"),
			Revision: revision,
		})
	}
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "1.*"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "1.1.0", rev.Revision())

	// Only the matching revision's descriptor is fetched.
	assert.Zero(t, remote.count(descriptorPath("acme", "core", "2.0.0")))
}

func TestRepository_ServerErrorFailsResolution(t *testing.T) {
	remote := newFakeRemote(t)
	remote.failWith("/acme/core/"+domain.IndexFileName, http.StatusInternalServerError)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	_, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepoRequestFailed)
}

func TestRepository_DescriptorServerErrorFailsResolution(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putIndex("acme", "core", "1.0.0")
	remote.failWith(descriptorPath("acme", "core", "1.0.0"), http.StatusInternalServerError)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	_, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepoRequestFailed)
}

func TestRepository_MetaCacheAvoidsRefetch(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:        domain.NewModuleID("acme", "core"),
		Revision:  "1.0.0",
		Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	rep, _ := newTestRepo(t, remote, httprepo.Options{MetaDir: t.TempDir()})

	first, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.True(t, first.EqualFields(second))
	assert.Equal(t, 1, remote.count(descriptorPath("acme", "core", "1.0.0")))
}

func TestRepository_ExpiredMetaCacheEntryIsRefetched(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
	})
	metaDir := t.TempDir()
	rep, _ := newTestRepo(t, remote, httprepo.Options{MetaDir: metaDir})

	_, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)
	require.NoError(t, err)

	// Age every cache entry past its time to live.
	entries, err := filepath.Glob(filepath.Join(metaDir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	stale := time.Now().Add(-time.Hour)
	for _, entry := range entries {
		require.NoError(t, os.Chtimes(entry, stale, stale))
	}

	_, err = rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, remote.count(descriptorPath("acme", "core", "1.0.0")))
}

func TestRepository_ChangingRequestBypassesMetaCache(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0-SNAPSHOT",
	})
	rep, _ := newTestRepo(t, remote, httprepo.Options{MetaDir: t.TempDir()})

	for i := 0; i < 2; i++ {
		rev, err := rep.Resolve(t.Context(), request("acme", "core", "1.0-SNAPSHOT"), nil)
		require.NoError(t, err)
		require.NotNil(t, rev)
	}

	assert.Equal(t, 2, remote.count(descriptorPath("acme", "core", "1.0-SNAPSHOT")))
}

func TestRepository_PublishedFallsBackToLastModified(t *testing.T) {
	remote := newFakeRemote(t)
	remote.lastModified = "Wed, 21 Oct 2015 07:28:00 GMT"
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
	})
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	want := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
	assert.WithinDuration(t, want, rev.Published(), 0)
}

func TestRepository_SkipsMalformedDescriptor(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putIndex("acme", "core", "1.0.0", "2.0.0")
	remote.put(descriptorPath("acme", "core", "1.0.0"), "{{{ not yaml")
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "2.0.0",
	})
	rep, log := newTestRepo(t, remote, httprepo.Options{})
	log.EXPECT().Warn(gomock.Any()).Times(1)

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "2.0.0", rev.Revision())
}

func TestRepository_IndexedRevisionWithoutDescriptor(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putIndex("acme", "core", "1.0.0", "2.0.0")
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
	})
	rep, log := newTestRepo(t, remote, httprepo.Options{})
	log.EXPECT().Warn(gomock.Any()).Times(1)

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "latest"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "1.0.0", rev.Revision())
}

func TestRepository_RejectsMismatchedIdentity(t *testing.T) {
	remote := newFakeRemote(t)
	data, err := repo.EncodeDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "other"),
		Revision: "1.0.0",
	})
	require.NoError(t, err)
	remote.put(descriptorPath("acme", "core", "1.0.0"), string(data))
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	_, err = rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDescriptorInvalid)
}

func TestRepository_TrimsTrailingSlash(t *testing.T) {
	remote := newFakeRemote(t)
	remote.putDescriptor(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
	})

	ctrl := gomock.NewController(t)
	rep := httprepo.New(httprepo.Options{
		Name:     "central",
		BaseURL:  remote.server.URL + "/",
		Strategy: domain.LatestRevision{},
	}, mocks.NewMockLogger(ctrl))

	rev, err := rep.Resolve(t.Context(), request("acme", "core", "1.0.0"), nil)

	require.NoError(t, err)
	require.NotNil(t, rev)
}

func TestRepository_LocateExplicitURL(t *testing.T) {
	remote := newFakeRemote(t)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev := domain.NewResolvedRevision(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
		Artifacts: []domain.Artifact{
			{Name: "core", Ext: "jar", URL: "https://cdn.example.com/core-1.0.0.jar"},
		},
	}, "central")

	origin, err := rep.Locate(t.Context(), rev)

	require.NoError(t, err)
	require.NotNil(t, origin)
	assert.Equal(t, "https://cdn.example.com/core-1.0.0.jar", origin.Location)
	assert.False(t, origin.Local)
	assert.Zero(t, remote.total(), "an explicit URL must not be probed")
}

func TestRepository_LocateProbesLayout(t *testing.T) {
	remote := newFakeRemote(t)
	remote.put("/acme/core/1.0.0/core.jar", "jar bytes")
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev := domain.NewResolvedRevision(domain.Descriptor{
		ID:        domain.NewModuleID("acme", "core"),
		Revision:  "1.0.0",
		Artifacts: []domain.Artifact{{Name: "core", Ext: "jar"}},
	}, "central")

	origin, err := rep.Locate(t.Context(), rev)

	require.NoError(t, err)
	require.NotNil(t, origin)
	assert.Equal(t, remote.server.URL+"/acme/core/1.0.0/core.jar", origin.Location)
	assert.False(t, origin.Local)
}

func TestRepository_LocateSkipsMissingArtifacts(t *testing.T) {
	remote := newFakeRemote(t)
	remote.put("/acme/core/1.0.0/core-docs.zip", "zip bytes")
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev := domain.NewResolvedRevision(domain.Descriptor{
		ID:       domain.NewModuleID("acme", "core"),
		Revision: "1.0.0",
		Artifacts: []domain.Artifact{
			{Name: "core", Ext: "jar"},
			{Name: "core", Ext: "zip", Classifier: "docs"},
		},
	}, "central")

	origin, err := rep.Locate(t.Context(), rev)

	require.NoError(t, err)
	require.NotNil(t, origin)
	assert.Equal(t, remote.server.URL+"/acme/core/1.0.0/core-docs.zip", origin.Location)
}

func TestRepository_LocateNothingFound(t *testing.T) {
	remote := newFakeRemote(t)
	rep, _ := newTestRepo(t, remote, httprepo.Options{})

	rev := domain.NewResolvedRevision(domain.Descriptor{
		ID:        domain.NewModuleID("acme", "core"),
		Revision:  "1.0.0",
		Artifacts: []domain.Artifact{{Name: "core", Ext: "jar"}},
	}, "central")

	origin, err := rep.Locate(t.Context(), rev)

	require.NoError(t, err)
	assert.Nil(t, origin)
}
