// Package progrock reports per-rule progress through a progrock tape.
package progrock

import (
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/cairn/internal/core/ports"
)

var _ ports.Progress = (*Recorder)(nil)

// Recorder implements ports.Progress using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Vertex starts a vertex named after a unit of work. Equal names share a digest.
func (r *Recorder) Vertex(name string) ports.ProgressVertex {
	return &Vertex{vertex: r.rec.Vertex(digest.FromString(name), name)}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
