// Package app implements the application layer for moor.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/moor/internal/adapters/detector"
	"go.trai.ch/moor/internal/adapters/settings"
	"go.trai.ch/moor/internal/adapters/store"
	"go.trai.ch/moor/internal/adapters/telemetry"
	"go.trai.ch/moor/internal/adapters/watcher"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/core/ports"
	"go.trai.ch/moor/internal/engine/merge"
	"go.trai.ch/moor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// mainChainName identifies the top level resolution chain assembled from the
// workspace's repository list.
const mainChainName = "main"

// App represents the main application logic.
type App struct {
	settingsLoader ports.SettingsLoader
	logger         ports.Logger

	// resolveMu serializes resolution passes. The engine is strictly
	// sequential and watch mode retriggers share one engine.
	resolveMu sync.Mutex

	out     io.Writer
	watcher ports.Watcher
}

// New creates a new App instance.
func New(loader ports.SettingsLoader, log ports.Logger) *App {
	return &App{
		settingsLoader: loader,
		logger:         log,
		out:            os.Stdout,
	}
}

// WithOutput redirects report output away from stdout.
// This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithWatcher sets the file watcher used by watch mode. Without one, watch
// mode constructs its own.
func (a *App) WithWatcher(w ports.Watcher) *App {
	a.watcher = w
	return a
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Refresh skips revision cache lookups so every repository is consulted
	// again. Results are still written back to the cache.
	Refresh bool

	// Watch keeps the process alive and re-resolves whenever the settings
	// file or a local repository changes.
	Watch bool

	// Output selects the report format, "text" or "json".
	Output string

	// Mode overrides report style detection: "auto", "pretty" or "plain".
	Mode string

	// LockPath writes the resolved revisions to the given file when set.
	LockPath string
}

// Resolve loads the workspace settings and resolves every declared
// dependency through the repository chain.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) error {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		_ = tp.Shutdown(ctx)
	}()
	tracer := telemetry.NewOTelTracer("moor")

	sess, err := a.newSession(tracer)
	if err != nil {
		return err
	}

	err = a.resolveOnce(ctx, sess, opts)
	if !opts.Watch {
		return err
	}
	if err != nil {
		// Watch mode stays alive on failure; the next change may fix it.
		a.logger.Error(err)
	}

	return a.watch(ctx, tracer, sess, opts)
}

// Deps prints the workspace's dependency list after merging duplicate
// declarations.
func (a *App) Deps(_ context.Context) error {
	s, err := a.settingsLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace settings")
	}

	requests, incompatible := merge.Requests(s.Dependencies)
	a.warnIncompatible(incompatible)

	mode := detector.ResolveMode(detector.DetectEnvironment(), "")
	return renderDependencies(a.out, mode, s.Workspace, requests)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Cache removes the whole workspace cache directory.
	Cache bool
	// Meta removes only the cached repository metadata.
	Meta bool
}

// Clean removes cached resolution state based on the provided options.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	s, err := a.settingsLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace settings")
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	switch {
	case opts.Cache:
		// The metadata cache lives below the cache directory and goes with it.
		remove(s.CacheDir, "revision cache")
	case opts.Meta:
		remove(filepath.Join(s.CacheDir, domain.MetaDirName), "repository metadata cache")
	}

	return errs
}

// session bundles the collaborators for resolution passes over one loaded
// workspace.
type session struct {
	settings  *domain.Settings
	resolvers []ports.Resolver
	engine    *resolve.Engine
	cache     ports.RevisionCache
}

// newSession loads the settings and assembles the resolvers, engine and
// revision cache described by them.
func (a *App) newSession(tracer ports.Tracer) (*session, error) {
	s, err := a.settingsLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace settings")
	}

	resolvers, err := settings.BuildResolvers(s, a.logger, tracer)
	if err != nil {
		return nil, err
	}

	eng := resolve.NewEngine(resolve.Options{
		Name:                  mainChainName,
		ReturnFirst:           s.ReturnFirst,
		PreferLatestSnapshots: s.PreferLatestSnapshots,
		ChangingPattern:       s.ChangingPattern,
		SelfResolverName:      settings.SelfResolverName(s.Repositories),
		DualPurpose:           true,
	}, a.logger, tracer)

	var cache ports.RevisionCache
	st, err := store.New(filepath.Join(s.CacheDir, domain.RevisionsFileName))
	if err != nil {
		// A broken cache document must not block resolution.
		a.logger.Warn("revision cache is unusable, resolving without it: " + err.Error())
	} else {
		cache = st
	}

	return &session{settings: s, resolvers: resolvers, engine: eng, cache: cache}, nil
}

// resolveOnce runs one full resolution pass and renders its report.
func (a *App) resolveOnce(ctx context.Context, sess *session, opts ResolveOptions) error {
	a.resolveMu.Lock()
	defer a.resolveMu.Unlock()

	cache := sess.cache
	if opts.Refresh && cache != nil {
		cache = refreshCache{cache}
	}

	requests, incompatible := merge.Requests(sess.settings.Dependencies)
	a.warnIncompatible(incompatible)

	rep := &report{workspace: sess.settings.Workspace}
	prior := make(map[string]*domain.ResolvedRevision, len(requests))

	var errs error
	for _, req := range requests {
		if ctx.Err() != nil {
			errs = errors.Join(errs, zerr.With(
				zerr.Wrap(ctx.Err(), "resolution interrupted"),
				"module", req.Key(),
			))
			break
		}

		rev, err := sess.engine.Resolve(ctx, req, sess.resolvers, cache, prior[req.Key()])
		switch {
		case err != nil:
			errs = errors.Join(errs, err)
			rep.add(req, nil)
			continue
		case rev == nil:
			errs = errors.Join(errs, zerr.With(zerr.With(domain.ErrResolutionFailed,
				"module", req.Key()),
				"reason", "module not found in any repository",
			))
			rep.add(req, nil)
			continue
		}

		prior[req.Key()] = rev
		if cache != nil {
			if perr := cache.Put(ctx, req, rev); perr != nil {
				a.logger.Warn("failed to cache resolution of " + req.Key() + ": " + perr.Error())
			}
		}
		rep.add(req, rev)
	}

	if err := a.render(rep, opts.Output, opts.Mode); err != nil {
		errs = errors.Join(errs, err)
	}

	if errs != nil {
		return errors.Join(domain.ErrResolutionFailed, errs)
	}

	if opts.LockPath != "" {
		return a.writeLock(opts.LockPath, rep)
	}
	return nil
}

// render writes the report in the requested format.
func (a *App) render(rep *report, format, modeFlag string) error {
	switch format {
	case "", "text":
		mode := detector.ResolveMode(detector.DetectEnvironment(), modeFlag)
		return rep.renderText(a.out, mode)
	case "json":
		return rep.renderJSON(a.out)
	default:
		return zerr.With(domain.ErrUnknownOutputFormat, "format", format)
	}
}

// warnIncompatible logs the modules whose duplicate declarations could not be
// merged.
func (a *App) warnIncompatible(ids []domain.ModuleID) {
	for _, id := range ids {
		a.logger.Warn(fmt.Sprintf("duplicate declarations for %s are incompatible and were kept separate", id))
	}
}

// watch re-resolves on relevant file changes until the context is canceled.
func (a *App) watch(ctx context.Context, tracer ports.Tracer, sess *session, opts ResolveOptions) error {
	w := a.watcher
	if w == nil {
		fw, err := watcher.NewWatcher(a.logger)
		if err != nil {
			return zerr.Wrap(err, domain.ErrWatchFailed.Error())
		}
		w = fw
	}
	defer func() {
		_ = w.Stop()
	}()

	state := newWatchState(sess.settings)
	if err := w.Start(ctx, state.roots()...); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}

	// A buffered single-slot trigger coalesces bursts that arrive while a
	// resolution pass is still running.
	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	go func() {
		for event := range w.Events() {
			if state.relevant(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	a.logger.Info("watching " + sess.settings.Workspace + " for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			fresh, err := a.newSession(tracer)
			if err != nil {
				// The settings file may be mid-edit. Keep the previous
				// session and wait for the next change.
				a.logger.Error(err)
				continue
			}
			sess = fresh
			state.update(sess.settings)

			// The trigger means resolution inputs changed, so cached
			// conclusions cannot be trusted for this pass.
			watchOpts := opts
			watchOpts.Refresh = true

			if err := a.resolveOnce(ctx, sess, watchOpts); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// refreshCache suppresses cache lookups while keeping writes, so a refresh
// run consults every repository but still records its results.
type refreshCache struct {
	ports.RevisionCache
}

func (refreshCache) Lookup(context.Context, domain.DependencyRequest) (*domain.ResolvedRevision, error) {
	return nil, nil
}

// watchState tracks which paths trigger a re-resolution. The settings file
// always does; everything else must live under the root of a local fs
// repository.
type watchState struct {
	mu           sync.Mutex
	settingsPath string
	repoRoots    []string
}

func newWatchState(s *domain.Settings) *watchState {
	state := &watchState{}
	state.update(s)
	return state
}

// update recomputes the trigger paths from freshly loaded settings.
func (ws *watchState) update(s *domain.Settings) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.settingsPath = filepath.Join(s.Root, domain.SettingsFileName)
	ws.repoRoots = fsRepositoryRoots(s.Repositories)
}

// roots returns the directories the watcher covers: the workspace root for
// the settings file plus every fs repository lying outside of it.
func (ws *watchState) roots() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	roots := []string{filepath.Dir(ws.settingsPath)}
	for _, root := range ws.repoRoots {
		if !underAny(root, roots) {
			roots = append(roots, root)
		}
	}
	return roots
}

// relevant reports whether a change at path affects resolution inputs.
func (ws *watchState) relevant(path string) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if path == ws.settingsPath {
		return true
	}
	return underAny(path, ws.repoRoots)
}

// fsRepositoryRoots collects the roots of fs repositories across every chain
// nesting level.
func fsRepositoryRoots(specs []domain.RepositorySpec) []string {
	var roots []string
	for _, spec := range specs {
		switch spec.Kind {
		case domain.RepoKindFS:
			roots = append(roots, spec.Path)
		case domain.RepoKindChain:
			roots = append(roots, fsRepositoryRoots(spec.Repositories)...)
		}
	}
	return roots
}

// underAny reports whether path equals one of the roots or lies below one.
func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
