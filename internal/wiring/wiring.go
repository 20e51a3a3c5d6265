// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/precache/internal/adapters/cas"
	_ "go.trai.ch/precache/internal/adapters/config"
	_ "go.trai.ch/precache/internal/adapters/logger"
	_ "go.trai.ch/precache/internal/adapters/network"
	_ "go.trai.ch/precache/internal/adapters/telemetry"
	_ "go.trai.ch/precache/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/precache/internal/app"
	_ "go.trai.ch/precache/internal/engine/lifecycle"
)
