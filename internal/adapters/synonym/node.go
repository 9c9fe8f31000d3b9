package synonym

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/thesaurus/internal/adapters/logger"
	"go.trai.ch/thesaurus/internal/core/ports"
)

// NodeID is the unique identifier for the dictionary builder Graft node.
const NodeID graft.ID = "adapter.synonym_builder"

func init() {
	graft.Register(graft.Node[ports.DictionaryBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DictionaryBuilder, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(log), nil
		},
	})
}
