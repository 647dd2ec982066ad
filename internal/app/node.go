package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/moor/internal/adapters/logger"
	"go.trai.ch/moor/internal/adapters/settings"
	"go.trai.ch/moor/internal/adapters/watcher"
	"go.trai.ch/moor/internal/core/ports"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app"

// Components bundles the fully wired application with the collaborators the
// command layer needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, logger.NodeID, watcher.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.SettingsLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: New(loader, log).WithWatcher(w), Logger: log}, nil
		},
	})
}
