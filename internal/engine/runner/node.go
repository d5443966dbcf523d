package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shade/internal/adapters/compiler" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shade/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shade/internal/adapters/linear"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shade/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shade/internal/core/ports"
)

// NodeID is the unique identifier for the runner Graft node.
const NodeID graft.ID = "engine.runner"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.FileSystemNodeID,
			compiler.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			linear.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			comp, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(fileSystem, comp, hasher, log, reporter), nil
		},
	})
}
