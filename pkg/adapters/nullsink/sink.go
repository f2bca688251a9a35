// Package nullsink provides a debug sink that discards everything.
package nullsink

import (
	"image"

	"github.com/user/vidanim/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

var _ ports.DebugSink = (*Sink)(nil)

// New creates a new null sink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) Enabled() bool                              { return false }
func (s *Sink) SaveStreamJSON(data []byte) error           { return nil }
func (s *Sink) SaveFrame(index int, img image.Image) error { return nil }
