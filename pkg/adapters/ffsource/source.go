// Package ffsource opens media files and decodes their video stream with
// FFmpeg through go-astiav.
package ffsource

import (
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/ideamans/go-l10n"
	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrStreamNotFound is returned when the container has no video stream.
	ErrStreamNotFound = errors.New("ffsource: no video stream")
	// ErrDecoderNotFound is returned when no decoder exists for the stream's codec.
	ErrDecoderNotFound = errors.New("ffsource: decoder not found")
)

var initOnce sync.Once

// Init sets the FFmpeg log level to warning. Safe to call repeatedly.
func Init() {
	initOnce.Do(func() {
		astiav.SetLogLevel(astiav.LogLevelWarning)
	})
}

// Opener opens containers with FFmpeg.
type Opener struct {
	overrides DecoderOverrides
	logger    ports.Logger
}

var _ ports.MediaOpener = (*Opener)(nil)

// New creates an Opener using overrides to pick decoders.
func New(overrides DecoderOverrides, logger ports.Logger) *Opener {
	if overrides == nil {
		overrides = DefaultDecoderOverrides()
	}
	return &Opener{overrides: overrides, logger: logger}
}

// Open opens path and selects the video stream with the largest picture.
func (o *Opener) Open(path string) (ports.MediaSource, error) {
	Init()

	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("ffsource: cannot allocate format context")
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("ffsource: open %s: %w", path, err)
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("ffsource: find stream info: %w", err)
	}

	stream := bestVideoStream(fc)
	if stream == nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("%w in %s", ErrStreamNotFound, path)
	}

	s := &Source{
		fc:        fc,
		stream:    stream,
		overrides: o.overrides,
		logger:    o.logger,
	}
	s.info = s.describe()
	o.logger.Debug(l10n.F("Selected stream %d: %s %dx%d %s, time base %s, %d frames",
		s.info.Index, s.info.Codec, s.info.Width, s.info.Height, s.info.PixelFormat, s.info.TimeBase, s.info.Frames))
	return s, nil
}

// bestVideoStream picks the video stream with the most pixels, the first
// one on ties.
func bestVideoStream(fc *astiav.FormatContext) *astiav.Stream {
	var best *astiav.Stream
	var bestArea int
	for _, s := range fc.Streams() {
		cp := s.CodecParameters()
		if cp.MediaType() != astiav.MediaTypeVideo {
			continue
		}
		if area := cp.Width() * cp.Height(); best == nil || area > bestArea {
			best, bestArea = s, area
		}
	}
	return best
}

// Source is an opened container with a selected video stream.
type Source struct {
	fc        *astiav.FormatContext
	stream    *astiav.Stream
	info      ports.StreamInfo
	overrides DecoderOverrides
	logger    ports.Logger
}

var _ ports.MediaSource = (*Source)(nil)

func (s *Source) describe() ports.StreamInfo {
	cp := s.stream.CodecParameters()
	tb := s.stream.TimeBase()
	afr := s.stream.AvgFrameRate()
	return ports.StreamInfo{
		Index:               s.stream.Index(),
		Codec:               cp.CodecID().Name(),
		Width:               cp.Width(),
		Height:              cp.Height(),
		PixelFormat:         FromAstiav(cp.PixelFormat()),
		TimeBase:            ports.Rational{Num: int64(tb.Num()), Den: int64(tb.Den())},
		AvgFrameRate:        ports.Rational{Num: int64(afr.Num()), Den: int64(afr.Den())},
		Frames:              s.stream.NbFrames(),
		Duration:            s.stream.Duration(),
		ContainerDurationUs: s.fc.Duration(),
	}
}

func (s *Source) Stream() ports.StreamInfo {
	return s.info
}

// OpenDecoder opens a decoder for the selected stream, honoring the
// decoder overrides.
func (s *Source) OpenDecoder() (ports.Decoder, error) {
	cp := s.stream.CodecParameters()
	codec, overridden := s.overrides.findDecoder(cp.CodecID())
	if codec == nil {
		return nil, fmt.Errorf("%w: %s", ErrDecoderNotFound, cp.CodecID().Name())
	}
	if overridden {
		s.logger.Debug(l10n.F("Using decoder %s for %s", codec.Name(), cp.CodecID().Name()))
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, errors.New("ffsource: cannot allocate codec context")
	}
	if err := cp.ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, fmt.Errorf("ffsource: copy codec parameters: %w", err)
	}
	cc.SetTimeBase(s.stream.TimeBase())
	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("ffsource: open decoder %s: %w", codec.Name(), err)
	}

	return &Decoder{
		fc:     s.fc,
		cc:     cc,
		index:  s.stream.Index(),
		pkt:    astiav.AllocPacket(),
		frame:  astiav.AllocFrame(),
		width:  cp.Width(),
		height: cp.Height(),
	}, nil
}

// Close releases the container.
func (s *Source) Close() error {
	s.fc.CloseInput()
	s.fc.Free()
	return nil
}
