package network

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precache/internal/core/ports"
)

// NodeID is the graft node providing the network.
const NodeID graft.ID = "adapter.network"

func init() {
	graft.Register(graft.Node[ports.Network]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Network, error) {
			return NewFetcher(), nil
		},
	})
}
