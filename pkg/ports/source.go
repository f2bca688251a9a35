package ports

// StreamInfo describes the selected video stream of an opened container.
type StreamInfo struct {
	Index        int
	Codec        string
	Width        int
	Height       int
	PixelFormat  PixelFormat
	TimeBase     Rational
	AvgFrameRate Rational

	// Frames is the frame count reported by the container, 0 if unknown.
	Frames int64
	// Duration is the stream duration in time-base units, 0 if unknown.
	Duration int64
	// ContainerDurationUs is the container duration in microseconds, 0 if unknown.
	ContainerDurationUs int64
}

// MediaOpener opens media containers.
type MediaOpener interface {
	// Open opens the container at path and selects its best video stream.
	Open(path string) (MediaSource, error)
}

// MediaSource is an opened container with a selected video stream.
type MediaSource interface {
	// Stream returns the selected stream's metadata.
	Stream() StreamInfo

	// OpenDecoder opens a decoder for the selected stream.
	OpenDecoder() (Decoder, error)

	// Close releases the container.
	Close() error
}

// Decoder drives the send-packet / receive-frame protocol of a native decoder.
type Decoder interface {
	// PixelFormat returns the decoder's native output format.
	PixelFormat() PixelFormat

	// NewResampler creates a bilinear converter from the native format to
	// target at the same dimensions.
	NewResampler(target PixelFormat) (Resampler, error)

	// SendNext feeds the next packet of the selected stream to the decoder.
	// Once the container is drained it sends the end-of-stream signal and
	// reports eof=true.
	SendNext() (eof bool, err error)

	// Receive pulls one decoded frame. ok is false when the decoder needs
	// more input or has been fully drained.
	Receive() (frame DecodedFrame, ok bool, err error)

	// Close releases the decoder.
	Close() error
}

// DecodedFrame is a frame still held by the native decoder.
// It is valid until the next call to Receive.
type DecodedFrame interface {
	// Timestamp returns the presentation timestamp in stream time-base units.
	Timestamp() (int64, bool)

	// Export copies the picture into an owned Frame.
	Export() (*Frame, error)
}

// Resampler converts decoded frames to another pixel format.
type Resampler interface {
	Resample(src DecodedFrame) (*Frame, error)
	Close() error
}

// FrameSender is the producer side of the frame channel.
type FrameSender interface {
	// Send blocks until the consumer has capacity.
	Send(p FramePacket) error
	// Full reports whether the channel buffer is full.
	Full() bool
	// Close signals end of stream.
	Close()
}

// FrameReceiver is the consumer side of the frame channel.
type FrameReceiver interface {
	// Recv blocks until a packet is available. ok is false once the
	// producer closed the channel and every packet was received.
	Recv() (p FramePacket, ok bool)
}

// FrameCounter estimates the number of frames in a media file when the
// container does not report it.
type FrameCounter interface {
	CountFrames(path string) (int64, error)
}
