package lifecycle

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precache/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precache/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precache/internal/adapters/network"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precache/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precache/internal/core/ports"
)

// NodeID is the unique identifier for the lifecycle worker Graft node.
const NodeID graft.ID = "engine.lifecycle"

func init() {
	graft.Register(graft.Node[*Worker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			network.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Worker, error) {
			storage, err := graft.Dep[ports.CacheStorage](ctx)
			if err != nil {
				return nil, err
			}

			net, err := graft.Dep[ports.Network](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewWorker(storage, net, tracer, log), nil
		},
	})
}
