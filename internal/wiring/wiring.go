// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cairn/internal/adapters/config"
	_ "go.trai.ch/cairn/internal/adapters/fs"
	_ "go.trai.ch/cairn/internal/adapters/logger"
	_ "go.trai.ch/cairn/internal/adapters/telemetry"
	_ "go.trai.ch/cairn/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/cairn/internal/adapters/watcher"
	// Register app and rule nodes.
	_ "go.trai.ch/cairn/internal/app"
	_ "go.trai.ch/cairn/internal/rules"
)
