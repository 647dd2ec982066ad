package repo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/moor/internal/adapters/repo"
	"go.trai.ch/moor/internal/core/domain"
)

func TestParseDescriptor(t *testing.T) {
	data := []byte(`module:
  organization: acme
  name: core
revision: 1.2.3
description: Core libraries
published: 2024-05-01T12:00:00Z
artifacts:
  - name: core
    type: lib
    ext: jar
  - name: core
    type: doc
    ext: zip
    classifier: docs
`)

	desc, err := repo.ParseDescriptor(data)
	require.NoError(t, err)

	assert.Equal(t, domain.NewModuleID("acme", "core"), desc.ID)
	assert.Equal(t, "1.2.3", desc.Revision)
	assert.Equal(t, "Core libraries", desc.Description)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), desc.Published.UTC())
	require.Len(t, desc.Artifacts, 2)
	assert.Equal(t, "core.jar", desc.Artifacts[0].FileName())
	assert.Equal(t, "core-docs.zip", desc.Artifacts[1].FileName())
}

func TestParseDescriptor_MinimalDocument(t *testing.T) {
	data := []byte(`module:
  organization: acme
  name: util
revision: 0.1.0
`)

	desc, err := repo.ParseDescriptor(data)
	require.NoError(t, err)

	assert.Equal(t, domain.NewModuleID("acme", "util"), desc.ID)
	assert.Equal(t, "0.1.0", desc.Revision)
	assert.True(t, desc.Published.IsZero())
	assert.Empty(t, desc.Artifacts)
}

func TestParseDescriptor_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing organization",
			data: "module:\n  name: core\nrevision: 1.0.0\n",
		},
		{
			name: "missing name",
			data: "module:\n  organization: acme\nrevision: 1.0.0\n",
		},
		{
			name: "missing revision",
			data: "module:\n  organization: acme\n  name: core\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.ParseDescriptor([]byte(tt.data))
			require.ErrorIs(t, err, domain.ErrDescriptorInvalid)
		})
	}
}

func TestParseDescriptor_MalformedYAML(t *testing.T) {
	_, err := repo.ParseDescriptor([]byte("module: [unclosed"))
	require.ErrorContains(t, err, domain.ErrDescriptorParseFailed.Error())
}

func TestEncodeDescriptor_Roundtrip(t *testing.T) {
	original := domain.Descriptor{
		ID:          domain.NewModuleID("acme", "core"),
		Revision:    "2.0.0",
		Description: "round trip",
		Published:   time.Date(2024, 8, 15, 9, 30, 0, 0, time.UTC),
		Artifacts: []domain.Artifact{
			{Name: "core", Type: "lib", Ext: "jar"},
		},
	}

	data, err := repo.EncodeDescriptor(original)
	require.NoError(t, err)

	parsed, err := repo.ParseDescriptor(data)
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed), "parsed descriptor differs from encoded original")
}

func TestParseIndex(t *testing.T) {
	data := []byte("revisions:\n  - 1.0.0\n  - 1.1.0\n  - 2.0.0-SNAPSHOT\n")

	revisions, err := repo.ParseIndex(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "1.1.0", "2.0.0-SNAPSHOT"}, revisions)
}

func TestParseIndex_Empty(t *testing.T) {
	revisions, err := repo.ParseIndex([]byte("revisions: []\n"))
	require.NoError(t, err)
	assert.Empty(t, revisions)
}

func TestEncodeIndex_Roundtrip(t *testing.T) {
	data, err := repo.EncodeIndex([]string{"0.9.0", "1.0.0"})
	require.NoError(t, err)

	revisions, err := repo.ParseIndex(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.9.0", "1.0.0"}, revisions)
}
