package pipeline

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/user/vidanim/pkg/formats"
	"github.com/user/vidanim/pkg/ports"
)

// Emit decodes the selected stream of src and sends every frame, in decode
// order, in a format listed in accepted. The sender is closed when Emit
// returns, on every path.
//
// A consumer that stops receiving ends the stream early. The failed send is
// logged and Emit returns nil: the consumer reports its own outcome.
//
// The pixel format is negotiated once. At most one resampler is created,
// and only when the decoder's native format is not accepted as-is.
func Emit(src ports.MediaSource, accepted ports.AcceptedFormats, tx ports.FrameSender, progress ports.Progress, logger ports.Logger) error {
	defer tx.Close()
	defer progress.Finish()

	stream := src.Stream()
	if stream.TimeBase.Num <= 0 || stream.TimeBase.Den <= 0 {
		return fmt.Errorf("%w: stream time base %s", ErrNoTimingInformation, stream.TimeBase)
	}

	dec, err := src.OpenDecoder()
	if err != nil {
		return fmt.Errorf("%w: open decoder: %v", ErrDecode, err)
	}
	defer dec.Close()

	native := dec.PixelFormat()
	if native == ports.PixelFormatUnknown {
		return ErrNoPixelFormat
	}

	var resampler ports.Resampler
	if formats.Passes(accepted, native) {
		logger.Debug(l10n.F("Pixel format %s is accepted as-is", native))
	} else {
		target, ok := formats.Select(accepted, native)
		if !ok {
			return fmt.Errorf("%w: nothing accepted for %s", ErrNoPixelFormat, native)
		}
		logger.Debug(l10n.F("Resampling %s to %s", native, target))
		resampler, err = dec.NewResampler(target)
		if err != nil {
			return fmt.Errorf("%w: create resampler: %v", ErrFrameConversion, err)
		}
		defer resampler.Close()
	}

	e := &emitter{
		dec:       dec,
		resampler: resampler,
		tx:        tx,
		progress:  progress,
		logger:    logger,
		timeBase:  stream.TimeBase,
		nominal:   NominalFrameDuration(stream),
	}

	for {
		eof, err := dec.SendNext()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if err := e.drain(); err != nil {
			return err
		}
		if e.consumerGone {
			logger.Debug(l10n.F("Encoder stopped receiving after %d frames", e.sent))
			return nil
		}
		if eof {
			break
		}
	}

	logger.Debug(l10n.F("Decoded %d frames", e.sent))
	return nil
}

type emitter struct {
	dec       ports.Decoder
	resampler ports.Resampler
	tx        ports.FrameSender
	progress  ports.Progress
	logger    ports.Logger
	timeBase  ports.Rational
	nominal   int64
	sent      int64

	consumerGone bool
}

// drain forwards every frame the decoder has ready. It stops early, without
// an error, when the receiver is closed.
func (e *emitter) drain() error {
	for {
		decoded, ok, err := e.dec.Receive()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if !ok {
			return nil
		}

		ts, ok := decoded.Timestamp()
		if !ok {
			return fmt.Errorf("%w: frame %d has no timestamp", ErrNoTimingInformation, e.sent)
		}

		var frame *ports.Frame
		if e.resampler != nil {
			frame, err = e.resampler.Resample(decoded)
		} else {
			frame, err = decoded.Export()
		}
		if err != nil {
			return fmt.Errorf("%w: frame %d: %v", ErrFrameConversion, e.sent, err)
		}

		packet := ports.FramePacket{
			Frame: frame,
			Timing: ports.Timing{
				Timestamp: ts,
				TimeBase:  e.timeBase,
				Duration:  e.nominal,
			},
		}

		full := e.tx.Full()
		if err := e.tx.Send(packet); err != nil {
			sendErr := fmt.Errorf("%w: %v", ErrSendFrame, err)
			e.logger.Warn(l10n.F("Could not send frame %d (channel full: %t): %v", e.sent, full, sendErr))
			e.consumerGone = true
			return nil
		}
		e.sent++
		e.progress.Increment()
	}
}
