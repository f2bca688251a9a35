package pipeline

import (
	"github.com/ideamans/go-l10n"
	"github.com/user/vidanim/pkg/ports"
)

const microsecondsPerSecond = 1_000_000

// CountFrames returns the number of frames in the stream, or 0 when it
// cannot be determined. Sources are tried in order: the container's frame
// count, the counter (may be nil), then container duration times the
// average frame rate.
func CountFrames(stream ports.StreamInfo, path string, counter ports.FrameCounter, logger ports.Logger) int64 {
	if stream.Frames > 0 {
		return stream.Frames
	}

	if counter != nil {
		n, err := counter.CountFrames(path)
		switch {
		case err != nil:
			logger.Debug(l10n.F("Frame count from container failed: %v", err))
		case n > 0:
			logger.Debug(l10n.F("Frame count from container samples: %d", n))
			return n
		}
	}

	afr := stream.AvgFrameRate
	if stream.ContainerDurationUs > 0 && afr.Num > 0 && afr.Den > 0 {
		n := stream.ContainerDurationUs * afr.Num / (microsecondsPerSecond * afr.Den)
		logger.Debug(l10n.F("Frame count estimated from duration: %d", n))
		return n
	}
	return 0
}

// DurationMs returns the stream duration in milliseconds, falling back to
// the container duration. 0 means unknown.
func DurationMs(stream ports.StreamInfo) int64 {
	tb := stream.TimeBase
	if stream.Duration > 0 && tb.Num > 0 && tb.Den > 0 {
		if ms := 1000 * stream.Duration * tb.Num / tb.Den; ms > 0 {
			return ms
		}
	}
	if stream.ContainerDurationUs > 0 {
		return stream.ContainerDurationUs * 1000 / microsecondsPerSecond
	}
	return 0
}

// NominalFrameDuration is one frame period at the average frame rate,
// in time-base units. 0 when either rational is unusable.
func NominalFrameDuration(stream ports.StreamInfo) int64 {
	tb, afr := stream.TimeBase, stream.AvgFrameRate
	if tb.Num <= 0 || tb.Den <= 0 || afr.Num <= 0 || afr.Den <= 0 {
		return 0
	}
	return tb.Den * afr.Den / (tb.Num * afr.Num)
}
