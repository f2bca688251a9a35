package avif

import (
	"fmt"
	"runtime"
	"strings"
)

// Codec names libavif understands.
const (
	CodecAuto    = "auto"
	CodecAOM     = "aom"
	CodecDav1d   = "dav1d"
	CodecLibgav1 = "libgav1"
	CodecRav1e   = "rav1e"
	CodecSVT     = "svt"
)

// Codecs lists the accepted codec names.
var Codecs = []string{CodecAuto, CodecAOM, CodecDav1d, CodecLibgav1, CodecRav1e, CodecSVT}

const (
	maxQuantizer = 63
	maxSpeed     = 10
)

// Options are the user-facing AVIF settings.
type Options struct {
	Codec          string `yaml:"codec" env:"CODEC"`
	MaxThreads     int    `yaml:"max_threads" env:"MAX_THREADS"`
	Quantizer      int    `yaml:"quantizer" env:"QUANTIZER"`
	QuantizerAlpha int    `yaml:"quantizer_alpha" env:"QUANTIZER_ALPHA"`
	Speed          int    `yaml:"speed" env:"SPEED"`
}

// DefaultOptions returns lossless quantizers at the fastest speed.
func DefaultOptions() Options {
	return Options{
		Codec:          CodecAuto,
		MaxThreads:     0,
		Quantizer:      0,
		QuantizerAlpha: 0,
		Speed:          maxSpeed,
	}
}

// Normalize clamps numeric options into libavif's ranges and validates the
// codec name. MaxThreads below 1 becomes the number of CPUs.
func (o Options) Normalize() (Options, error) {
	codec := strings.ToLower(strings.TrimSpace(o.Codec))
	if codec == "" {
		codec = CodecAuto
	}
	if !validCodec(codec) {
		return o, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownCodec, o.Codec, strings.Join(Codecs, ", "))
	}
	o.Codec = codec

	if o.MaxThreads < 1 {
		o.MaxThreads = runtime.NumCPU()
	}
	o.Quantizer = clamp(o.Quantizer, 0, maxQuantizer)
	o.QuantizerAlpha = clamp(o.QuantizerAlpha, 0, maxQuantizer)
	o.Speed = clamp(o.Speed, 0, maxSpeed)
	return o, nil
}

func validCodec(name string) bool {
	for _, c := range Codecs {
		if c == name {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
