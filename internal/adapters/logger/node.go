package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/cairn/internal/core/ports"
)

// NodeID identifies the process-wide logger.
const NodeID graft.ID = "adapter.logger"

// EnvFormat selects the initial output format. "json" enables JSON records; the --json flag still wins.
const EnvFormat = "CAIRN_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New()
			l.SetJSON(os.Getenv(EnvFormat) == "json")
			return l, nil
		},
	})
}
