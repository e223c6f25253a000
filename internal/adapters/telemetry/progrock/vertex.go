package progrock

import (
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/cairn/internal/core/ports"
)

var _ ports.ProgressVertex = (*Vertex)(nil)

// Vertex implements ports.ProgressVertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Cached marks the vertex as a cache hit.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// Done marks the vertex as finished, successfully when err is nil.
func (v *Vertex) Done(err error) {
	v.vertex.Done(err)
}
