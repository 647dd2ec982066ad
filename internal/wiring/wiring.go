// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/moor/internal/adapters/logger"
	_ "go.trai.ch/moor/internal/adapters/settings"
	_ "go.trai.ch/moor/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/moor/internal/app"
)
