package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/cairn/internal/rules"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer needs.
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
			fs.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			telemetry.MetricsNodeID,
			progrock.NodeID,
			rules.NodeID,
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
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[afero.Fs](ctx)
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

	metrics, err := graft.Dep[*telemetry.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	progress, err := graft.Dep[ports.Progress](ctx)
	if err != nil {
		return nil, err
	}

	transformer, err := graft.Dep[ports.RuleTransformer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fsys, log, tracer, metrics, progress, transformer, w), nil
}
