package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/moor/internal/app"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(mockLoader, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)

	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	// Stub Logger Error
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	application := app.New(mockLoader, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	// Mock Load failing to simulate execution failure
	mockLoader.EXPECT().Load(".").Return(nil, errors.New("load failed"))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"resolve"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_ResolutionFailure verifies that a failed resolution exits 1 without
// logging: the rendered report already names every failed module.
func TestRun_ResolutionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workDir := t.TempDir()
	repoRoot := filepath.Join(workDir, "repo")
	require.NoError(t, os.MkdirAll(repoRoot, domain.DirPerm))

	settings := &domain.Settings{
		Workspace: "demo",
		Root:      workDir,
		CacheDir:  filepath.Join(workDir, domain.DefaultCachePath()),
		Repositories: []domain.RepositorySpec{
			{Name: "local", Kind: domain.RepoKindFS, Path: repoRoot},
		},
		Dependencies: []domain.DependencyRequest{
			{ID: domain.NewModuleID("acme", "ghost"), Revision: "1.0.0", Transitive: true},
		},
	}

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLoader.EXPECT().Load(".").Return(settings, nil)

	// A strict logger without expectations proves the silent exit.
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(mockLoader, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"resolve"}, stderr, provider, func(a *app.App) {
		a.WithOutput(io.Discard)
	})

	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// We need a provider that blocks until context is done.
	blockCh := make(chan struct{})

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Settings, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	mockLogger := mocks.NewMockLogger(ctrl)
	// Allow logging of the error when context is canceled
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	application := app.New(mockLoader, mockLogger)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"resolve"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
		})
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
