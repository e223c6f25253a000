package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cairn/internal/core/ports"
)

// NodeID is the unique identifier for the rule registry Graft node.
const NodeID graft.ID = "rules.registry"

func init() {
	graft.Register(graft.Node[ports.RuleTransformer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.RuleTransformer, error) {
			return DefaultRegistry(), nil
		},
	})
}
