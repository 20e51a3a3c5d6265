package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precache/internal/core/ports"
)

// NodeID is the graft node providing the cache storage.
const NodeID graft.ID = "adapter.cache_storage"

func init() {
	graft.Register(graft.Node[ports.CacheStorage]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CacheStorage, error) {
			return NewStorage()
		},
	})
}
