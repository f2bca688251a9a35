// Package avif encodes decoded frames into AVIF stills and image sequences.
package avif

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ideamans/go-l10n"
	"github.com/user/vidanim/pkg/formats"
	"github.com/user/vidanim/pkg/pipeline"
	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrCannotCreateEncoder is returned when the native encoder cannot be created.
	ErrCannotCreateEncoder = errors.New("avif: cannot create encoder")
	// ErrUnknownCodec is returned for codec names libavif does not know.
	ErrUnknownCodec = errors.New("avif: unknown codec")
)

var accepted = ports.AcceptedFormats{
	Opaque: []ports.PixelFormat{ports.PixelFormatYUV444P, ports.PixelFormatYUV420P, ports.PixelFormatYUV422P},
	Alpha:  []ports.PixelFormat{ports.PixelFormatYUVA444P},
}

// Task is the AVIF encoder task.
type Task struct {
	codec  ports.AVIFCodec
	opts   Options
	logger ports.Logger
}

var _ ports.EncoderTask = (*Task)(nil)

// New creates an AVIF task. Options are normalized here.
func New(codec ports.AVIFCodec, opts Options, logger ports.Logger) (*Task, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	return &Task{codec: codec, opts: opts, logger: logger}, nil
}

func (t *Task) Name() string { return "avif" }

func (t *Task) AcceptedFormats() ports.AcceptedFormats { return accepted }

func (t *Task) OutputPath(base string) string { return base + ".avif" }

// Options returns the normalized options.
func (t *Task) Options() Options { return t.opts }

// Configure uses the stream time base as the sequence timescale: one
// second is TimeBase.Den units and one timestamp tick is TimeBase.Num units.
func (t *Task) Configure(stream ports.StreamInfo) (ports.EncoderJob, error) {
	tb := stream.TimeBase
	if tb.Num <= 0 || tb.Den <= 0 {
		return nil, fmt.Errorf("%w: time base %s", pipeline.ErrNoTimingInformation, tb)
	}

	settings := ports.AVIFEncoderSettings{
		Codec:          t.opts.Codec,
		MaxThreads:     t.opts.MaxThreads,
		Quantizer:      t.opts.Quantizer,
		QuantizerAlpha: t.opts.QuantizerAlpha,
		Speed:          t.opts.Speed,
		Timescale:      uint64(tb.Den),
	}
	t.logger.Debug(l10n.F("AVIF encoder: codec %s, %d threads, quantizer %d/%d, speed %d, timescale %d",
		settings.Codec, settings.MaxThreads, settings.Quantizer, settings.QuantizerAlpha, settings.Speed, settings.Timescale))

	return &job{codec: t.codec, settings: settings, logger: t.logger}, nil
}

type job struct {
	codec    ports.AVIFCodec
	settings ports.AVIFEncoderSettings
	logger   ports.Logger
	used     atomic.Bool
}

// Stats reports the output size and the encoder's own diagnostics.
type Stats struct {
	Written     int
	Diagnostics string
}

func (s Stats) String() string {
	return fmt.Sprintf("Written %d bytes (%s)", s.Written, s.Diagnostics)
}

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

	enc, err := j.newEncoder()
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	data, err := enc.EncodeSingle(p.Frame)
	if err != nil {
		return nil, fmt.Errorf("avif: encode still: %w", err)
	}
	progress.Increment()

	return j.write(w, data, enc)
}

// RunAnimation adds every frame with the time until the next frame as its
// duration. The last frame, and any frame whose successor does not advance
// the clock, gets the nominal frame duration, or one unit when unknown.
func (j *job) RunAnimation(w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	if !j.used.CompareAndSwap(false, true) {
		return nil, pipeline.ErrJobUsed
	}
	defer progress.Finish()

	enc, err := j.newEncoder()
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	var (
		prev  ports.FramePacket
		added int
		have  bool
	)
	add := func(p ports.FramePacket, next *ports.Timing) error {
		if err := enc.AddImage(p.Frame, frameDuration(p.Timing, next)); err != nil {
			return fmt.Errorf("avif: add frame %d: %w", added, err)
		}
		added++
		progress.Increment()
		return nil
	}

	for {
		p, ok := frames.Recv()
		if !ok {
			break
		}
		if err := checkFormat(p.Frame); err != nil {
			return nil, err
		}
		if have {
			if err := add(prev, &p.Timing); err != nil {
				return nil, err
			}
		}
		prev, have = p, true
	}
	if have {
		if err := add(prev, nil); err != nil {
			return nil, err
		}
	}

	data, err := enc.Finish()
	if err != nil {
		return nil, fmt.Errorf("avif: finish sequence: %w", err)
	}
	j.logger.Debug(l10n.F("AVIF sequence of %d frames assembled", added))

	return j.write(w, data, enc)
}

func (j *job) newEncoder() (ports.AVIFEncoder, error) {
	enc, err := j.codec.NewEncoder(j.settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotCreateEncoder, err)
	}
	return enc, nil
}

func (j *job) write(w io.Writer, data []byte, enc ports.AVIFEncoder) (ports.Stats, error) {
	n, err := w.Write(data)
	if err != nil {
		return nil, fmt.Errorf("avif: write output: %w", err)
	}
	return Stats{Written: n, Diagnostics: enc.Describe()}, nil
}

// frameDuration is in timescale units, where one timestamp tick is
// TimeBase.Num units.
func frameDuration(cur ports.Timing, next *ports.Timing) uint64 {
	num := cur.TimeBase.Num
	if next != nil {
		if d := next.Timestamp - cur.Timestamp; d > 0 {
			return uint64(d * num)
		}
	}
	if cur.Duration > 0 {
		return uint64(cur.Duration * num)
	}
	return 1
}

func checkFormat(f *ports.Frame) error {
	if f == nil || !formats.Passes(accepted, f.Format) {
		format := ports.PixelFormatUnknown
		if f != nil {
			format = f.Format
		}
		return fmt.Errorf("%w: avif cannot take %s", pipeline.ErrFrameConversion, format)
	}
	return nil
}
