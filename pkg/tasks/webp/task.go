// Package webp encodes decoded frames into WebP stills and animations.
package webp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ideamans/go-l10n"
	"github.com/user/vidanim/pkg/formats"
	"github.com/user/vidanim/pkg/pipeline"
	"github.com/user/vidanim/pkg/ports"
)

// ErrNoCodecParameters is returned when the stream has no usable dimensions.
var ErrNoCodecParameters = errors.New("webp: no codec parameters")

var accepted = ports.AcceptedFormats{
	Opaque: []ports.PixelFormat{ports.PixelFormatYUV420P},
	Alpha:  []ports.PixelFormat{ports.PixelFormatYUVA420P},
}

// Task is the WebP encoder task.
type Task struct {
	codec  ports.WebPCodec
	opts   Options
	logger ports.Logger
}

var _ ports.EncoderTask = (*Task)(nil)

// New creates a WebP task with normalized options.
func New(codec ports.WebPCodec, opts Options, logger ports.Logger) *Task {
	return &Task{codec: codec, opts: opts.Normalize(), logger: logger}
}

func (t *Task) Name() string { return "webp" }

func (t *Task) AcceptedFormats() ports.AcceptedFormats { return accepted }

func (t *Task) OutputPath(base string) string { return base + ".webp" }

// Options returns the normalized options.
func (t *Task) Options() Options { return t.opts }

// Configure records the canvas size and total duration of the stream.
func (t *Task) Configure(stream ports.StreamInfo) (ports.EncoderJob, error) {
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoCodecParameters, stream.Width, stream.Height)
	}
	durationMs := pipeline.DurationMs(stream)
	t.logger.Debug(l10n.F("WebP canvas %dx%d, duration %d ms", stream.Width, stream.Height, durationMs))

	return &job{
		codec:      t.codec,
		opts:       t.opts,
		width:      stream.Width,
		height:     stream.Height,
		durationMs: durationMs,
		logger:     t.logger,
	}, nil
}

type job struct {
	codec      ports.WebPCodec
	opts       Options
	width      int
	height     int
	durationMs int64
	logger     ports.Logger
	used       atomic.Bool
}

// stillStats is the native statistics of a still encode, if any.
type stillStats struct {
	native *ports.WebPStats
}

func (s stillStats) String() string {
	if s.native == nil {
		return "No stats"
	}
	return s.native.String()
}

// writtenStats reports the size of an animation.
type writtenStats int

func (s writtenStats) String() string {
	return fmt.Sprintf("Written %d bytes", int(s))
}

// RunStill encodes the first frame. Chunks produced by the native encoder
// are collected and written once.
func (j *job) RunStill(w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	if !j.used.CompareAndSwap(false, true) {
		return nil, pipeline.ErrJobUsed
	}
	defer progress.Finish()

	p, ok := frames.Recv()
	if !ok {
		return nil, pipeline.ErrNoImageReceived
	}
	if err := checkFormat(p.Frame); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	native, err := j.codec.EncodeStill(p.Frame, j.opts.Config, &buf)
	if err != nil {
		return nil, fmt.Errorf("webp: encode still: %w", err)
	}
	progress.Increment()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("webp: write output: %w", err)
	}
	return stillStats{native: native}, nil
}

// RunAnimation adds every frame at its millisecond timestamp, then closes
// the animation at the stream duration.
func (j *job) RunAnimation(w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	if !j.used.CompareAndSwap(false, true) {
		return nil, pipeline.ErrJobUsed
	}
	defer progress.Finish()

	enc, err := j.codec.NewAnimEncoder(j.width, j.height, j.opts.Anim, j.opts.Config)
	if err != nil {
		return nil, fmt.Errorf("webp: create animation encoder: %w", err)
	}
	defer enc.Close()

	var (
		added  int
		lastMs int64
		gapMs  int64
	)
	for {
		p, ok := frames.Recv()
		if !ok {
			break
		}
		if err := checkFormat(p.Frame); err != nil {
			return nil, err
		}
		ms := p.Timing.Milliseconds()
		if err := enc.Add(p.Frame, int(ms)); err != nil {
			return nil, fmt.Errorf("webp: add frame %d at %d ms: %w", added, ms, err)
		}
		if added > 0 {
			gapMs = ms - lastMs
		}
		lastMs = ms
		added++
		progress.Increment()
	}
	end := endTimestamp(j.durationMs, lastMs, gapMs)
	data, err := enc.Finalize(int(end))
	if err != nil {
		return nil, fmt.Errorf("webp: assemble animation: %w", err)
	}
	j.logger.Debug(l10n.F("WebP animation of %d frames assembled, ends at %d ms", added, end))

	n, err := w.Write(data)
	if err != nil {
		return nil, fmt.Errorf("webp: write output: %w", err)
	}
	return writtenStats(n), nil
}

// endTimestamp is the stream duration, unless that would not leave the last
// frame any display time. Then the last frame is shown as long as the gap
// before it, and at least 1 ms.
func endTimestamp(durationMs, lastMs, gapMs int64) int64 {
	if durationMs > lastMs {
		return durationMs
	}
	if gapMs < 1 {
		gapMs = 1
	}
	return lastMs + gapMs
}

func checkFormat(f *ports.Frame) error {
	if f == nil || !formats.Passes(accepted, f.Format) {
		format := ports.PixelFormatUnknown
		if f != nil {
			format = f.Format
		}
		return fmt.Errorf("%w: webp cannot take %s", pipeline.ErrFrameConversion, format)
	}
	return nil
}
