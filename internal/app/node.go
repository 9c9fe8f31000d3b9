package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/thesaurus/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/snapshot"  //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/source"    //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/synonym"   //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/thesaurus/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			source.NodeID,
			synonym.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			snapshot.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	sources, err := graft.Dep[ports.SourceFactory](ctx)
	if err != nil {
		return nil, err
	}
	builder, err := graft.Dep[ports.DictionaryBuilder](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := graft.Dep[ports.SnapshotStore](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, sources, builder, log, tracer, snapshots, watchers), nil
}
