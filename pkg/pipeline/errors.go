package pipeline

import "errors"

var (
	// ErrNoPixelFormat is returned when the decoder reports no usable output
	// format, or no accepted format can be selected for it.
	ErrNoPixelFormat = errors.New("pipeline: no pixel format")

	// ErrNoTimingInformation is returned when a decoded frame has no
	// timestamp or the stream has no time base.
	ErrNoTimingInformation = errors.New("pipeline: no timing information")

	// ErrSendFrame is logged when the consumer went away while frames were
	// still being produced. The producer then stops without failing.
	ErrSendFrame = errors.New("pipeline: could not send frame")

	// ErrDecode wraps failures of the native decoder.
	ErrDecode = errors.New("pipeline: decode failed")

	// ErrFrameConversion is returned when a frame cannot be exported,
	// resampled, or handed to a native encoder.
	ErrFrameConversion = errors.New("pipeline: frame conversion failed")

	// ErrNoImageReceived is returned by still encoders when the stream ends
	// before the first frame.
	ErrNoImageReceived = errors.New("pipeline: no image received")
)

// ErrJobUsed is returned when a configured encoder job is run a second time.
var ErrJobUsed = errors.New("pipeline: encoder job already ran")
