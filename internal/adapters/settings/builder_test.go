package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/moor/internal/adapters/repo/chain"
	"go.trai.ch/moor/internal/adapters/repo/fsrepo"
	"go.trai.ch/moor/internal/adapters/repo/httprepo"
	"go.trai.ch/moor/internal/adapters/repo/project"
	"go.trai.ch/moor/internal/adapters/settings"
	"go.trai.ch/moor/internal/adapters/telemetry"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/moor/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func buildResolvers(t *testing.T, s *domain.Settings) ([]ports.Resolver, error) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return settings.BuildResolvers(s, log, telemetry.NewNoOpTracer())
}

func TestBuildResolvers_AllKinds(t *testing.T) {
	s := &domain.Settings{
		Workspace: "backend",
		Repositories: []domain.RepositorySpec{
			{Name: "workspace", Kind: domain.RepoKindProject},
			{Name: "local", Kind: domain.RepoKindFS, Path: t.TempDir(), Strategy: "latest-time"},
			{Name: "central", Kind: domain.RepoKindHTTP, URL: "https://repo.example.com"},
			{Name: "mirrors", Kind: domain.RepoKindChain, Repositories: []domain.RepositorySpec{
				{Name: "eu", Kind: domain.RepoKindHTTP, URL: "https://eu.example.com"},
				{Name: "us", Kind: domain.RepoKindHTTP, URL: "https://us.example.com"},
			}},
		},
	}

	resolvers, err := buildResolvers(t, s)

	require.NoError(t, err)
	require.Len(t, resolvers, 4)

	workspace, ok := resolvers[0].(*project.Repository)
	require.True(t, ok)
	assert.Equal(t, "workspace", workspace.Name())

	local, ok := resolvers[1].(*fsrepo.Repository)
	require.True(t, ok)
	assert.Equal(t, "local", local.Name())
	assert.Equal(t, domain.LatestTime{}, local.LatestStrategy())

	central, ok := resolvers[2].(*httprepo.Repository)
	require.True(t, ok)
	assert.Equal(t, "central", central.Name())
	assert.Equal(t, domain.LatestRevision{}, central.LatestStrategy())

	mirrors, ok := resolvers[3].(*chain.Chain)
	require.True(t, ok)
	assert.Equal(t, "mirrors", mirrors.Name())
}

func TestBuildResolvers_NestedChain(t *testing.T) {
	s := &domain.Settings{
		Workspace: "backend",
		Repositories: []domain.RepositorySpec{
			{Name: "outer", Kind: domain.RepoKindChain, Repositories: []domain.RepositorySpec{
				{Name: "inner", Kind: domain.RepoKindChain, Repositories: []domain.RepositorySpec{
					{Name: "leaf", Kind: domain.RepoKindHTTP, URL: "https://leaf.example.com"},
				}},
			}},
		},
	}

	resolvers, err := buildResolvers(t, s)

	require.NoError(t, err)
	require.Len(t, resolvers, 1)
	assert.IsType(t, &chain.Chain{}, resolvers[0])
}

func TestBuildResolvers_UnknownKind(t *testing.T) {
	s := &domain.Settings{
		Workspace: "backend",
		Repositories: []domain.RepositorySpec{
			{Name: "weird", Kind: "ftp"},
		},
	}

	_, err := buildResolvers(t, s)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRepositoryKind)
}

func TestBuildResolvers_UnknownStrategy(t *testing.T) {
	s := &domain.Settings{
		Workspace: "backend",
		Repositories: []domain.RepositorySpec{
			{Name: "local", Kind: domain.RepoKindFS, Path: t.TempDir(), Strategy: "newest-wins"},
		},
	}

	_, err := buildResolvers(t, s)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}

func TestSelfResolverName(t *testing.T) {
	tests := []struct {
		name  string
		specs []domain.RepositorySpec
		want  string
	}{
		{
			name: "top level project repository",
			specs: []domain.RepositorySpec{
				{Name: "central", Kind: domain.RepoKindHTTP},
				{Name: "workspace", Kind: domain.RepoKindProject},
			},
			want: "workspace",
		},
		{
			name: "project nested inside a chain",
			specs: []domain.RepositorySpec{
				{Name: "mirrors", Kind: domain.RepoKindChain, Repositories: []domain.RepositorySpec{
					{Name: "workspace", Kind: domain.RepoKindProject},
				}},
			},
			want: "workspace",
		},
		{
			name: "no project repository",
			specs: []domain.RepositorySpec{
				{Name: "central", Kind: domain.RepoKindHTTP},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settings.SelfResolverName(tt.specs))
		})
	}
}
