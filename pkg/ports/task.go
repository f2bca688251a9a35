package ports

import (
	"fmt"
	"io"
)

// Stats describes a finished encoder run.
type Stats interface {
	fmt.Stringer
}

// EncoderTask is implemented once per output image format.
type EncoderTask interface {
	// Name is the short format name ("avif", "webp").
	Name() string

	// AcceptedFormats lists the pixel formats the encoder consumes directly.
	AcceptedFormats() AcceptedFormats

	// OutputPath derives the output file path from a base name.
	OutputPath(base string) string

	// Configure derives an immutable job configuration from stream metadata.
	Configure(stream StreamInfo) (EncoderJob, error)
}

// EncoderJob is a configured encoder task. Each job runs at most once.
type EncoderJob interface {
	// RunStill consumes exactly one frame and writes a single image.
	RunStill(w io.Writer, frames FrameReceiver, progress Progress) (Stats, error)

	// RunAnimation consumes the whole stream and writes an animation.
	RunAnimation(w io.Writer, frames FrameReceiver, progress Progress) (Stats, error)
}

// Progress reports per-frame progress of a worker.
type Progress interface {
	SetTotal(total int64)
	Increment()
	Finish()
}
