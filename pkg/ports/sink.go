package ports

import "image"

// DebugSink receives intermediate results for troubleshooting a run.
type DebugSink interface {
	// Enabled reports whether anything is saved.
	Enabled() bool

	// SaveStreamJSON saves the stream and negotiation summary.
	SaveStreamJSON(data []byte) error

	// SaveFrame saves a snapshot of a frame seen by the encoder.
	SaveFrame(index int, img image.Image) error
}
