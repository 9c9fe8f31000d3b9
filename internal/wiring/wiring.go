// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/thesaurus/internal/adapters/config"
	_ "go.trai.ch/thesaurus/internal/adapters/logger"
	_ "go.trai.ch/thesaurus/internal/adapters/snapshot"
	_ "go.trai.ch/thesaurus/internal/adapters/source"
	_ "go.trai.ch/thesaurus/internal/adapters/synonym"
	_ "go.trai.ch/thesaurus/internal/adapters/telemetry"
	_ "go.trai.ch/thesaurus/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/thesaurus/internal/app"
)
