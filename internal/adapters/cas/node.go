package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shade/internal/core/ports"
)

// NodeID is the unique identifier for the build record store factory Graft node.
const NodeID graft.ID = "adapter.build_record_store"

func init() {
	// The state file path is only known once the config is loaded, so the graph provides a factory.
	graft.Register(graft.Node[ports.StoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StoreFactory, error) {
			return func(path string) ports.BuildRecordStore {
				return NewStore(path)
			}, nil
		},
	})
}
