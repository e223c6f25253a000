package actiongraph

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cairn/internal/core/domain"
)

// targetGraphDigest folds every node's target and raw inputs hash in sorted target order.
func targetGraphDigest(graph *domain.TargetGraph) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, target := range graph.Targets() {
		node, _ := graph.Node(target)
		_, _ = d.WriteString(target.String())
		_, _ = d.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], node.RawInputsHash)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
