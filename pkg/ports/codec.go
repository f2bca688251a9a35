package ports

import (
	"fmt"
	"io"
)

// =============================================================================
// AVIF
// =============================================================================

// AVIFEncoderSettings are applied to a native AVIF encoder at creation.
type AVIFEncoderSettings struct {
	Codec          string // auto, aom, dav1d, libgav1, rav1e, svt
	MaxThreads     int
	Quantizer      int
	QuantizerAlpha int
	Speed          int
	// Timescale is the number of duration units per second.
	Timescale uint64
}

// AVIFCodec creates native AVIF encoders.
type AVIFCodec interface {
	NewEncoder(settings AVIFEncoderSettings) (AVIFEncoder, error)
}

// AVIFEncoder is one native AVIF encoder instance.
type AVIFEncoder interface {
	// AddImage appends a frame to an image sequence.
	AddImage(f *Frame, durationInTimescales uint64) error

	// Finish completes the sequence and returns the encoded file.
	Finish() ([]byte, error)

	// EncodeSingle encodes one frame as a still image.
	EncodeSingle(f *Frame) ([]byte, error)

	// Describe returns the encoder settings and I/O statistics.
	Describe() string

	// Close releases the native encoder.
	Close()
}

// =============================================================================
// WebP
// =============================================================================

// WebPPreset selects libwebp's initial configuration.
type WebPPreset int

const (
	WebPPresetDefault WebPPreset = iota
	WebPPresetPicture
	WebPPresetPhoto
	WebPPresetDrawing
	WebPPresetIcon
	WebPPresetText
)

// WebPImageHint mirrors WebPImageHint.
type WebPImageHint int

const (
	WebPHintDefault WebPImageHint = iota
	WebPHintPicture
	WebPHintPhoto
	WebPHintGraph
)

// WebPAlphaFiltering mirrors WebPConfig.alpha_filtering.
type WebPAlphaFiltering int

const (
	WebPAlphaFilterNone WebPAlphaFiltering = iota
	WebPAlphaFilterFast
	WebPAlphaFilterBest
)

// WebPPreprocessing mirrors WebPConfig.preprocessing.
type WebPPreprocessing int

const (
	WebPPreprocessNone WebPPreprocessing = iota
	WebPPreprocessSegmentSmooth
	WebPPreprocessPseudoRandomDithering
)

// WebPConfig holds encoder settings. Nil fields keep the preset's value.
type WebPConfig struct {
	Preset WebPPreset

	Lossless         *bool
	Quality          *float32
	Method           *int
	ImageHint        *WebPImageHint
	TargetSize       *int
	TargetPSNR       *float32
	Segments         *int
	SNSStrength      *int
	FilterStrength   *int
	FilterSharpness  *int
	StrongFilter     *bool
	Autofilter       *bool
	AlphaCompression *bool
	AlphaFiltering   *WebPAlphaFiltering
	AlphaQuality     *int
	Pass             *int
	ShowCompressed   *bool
	Preprocessing    *WebPPreprocessing
	Partitions       *int
	PartitionLimit   *int
	EmulateJPEGSize  *bool
	ThreadLevel      *bool
	LowMemory        *bool
	NearLossless     *int
	Exact            *bool
	UseDeltaPalette  *bool
	UseSharpYUV      *bool
}

// KeyframeDistance is the (kmin, kmax) pair of WebPAnimEncoderOptions.
type KeyframeDistance struct {
	Min int
	Max int
}

// WebPAnimOptions holds animation encoder settings. Nil fields keep
// libwebp's defaults.
type WebPAnimOptions struct {
	MinimizeSize     *bool
	KeyframeDistance *KeyframeDistance
	AllowMixed       *bool
	// BackgroundColor is packed as 0xAARRGGBB.
	BackgroundColor *uint32
	// LoopCount of 0 loops forever.
	LoopCount *int
}

// WebPStats is a subset of WebPAuxStats.
type WebPStats struct {
	CodedSize     int
	PSNR          [5]float32 // Y, U, V, all, alpha
	BlockCount    [3]int     // intra4, intra16, skipped
	HeaderBytes   [2]int
	AlphaDataSize int
	LosslessSize  int
}

func (s WebPStats) String() string {
	return fmt.Sprintf("coded size %d bytes, PSNR y=%.2f u=%.2f v=%.2f all=%.2f alpha=%.2f, blocks i4=%d i16=%d skip=%d, header %d/%d bytes, alpha %d bytes, lossless %d bytes",
		s.CodedSize, s.PSNR[0], s.PSNR[1], s.PSNR[2], s.PSNR[3], s.PSNR[4],
		s.BlockCount[0], s.BlockCount[1], s.BlockCount[2],
		s.HeaderBytes[0], s.HeaderBytes[1], s.AlphaDataSize, s.LosslessSize)
}

// WebPCodec is the native WebP encode service.
type WebPCodec interface {
	// EncodeStill encodes one frame. The sink receives the output in one or
	// more contiguous chunks as the native encoder produces them.
	EncodeStill(f *Frame, cfg WebPConfig, sink io.Writer) (*WebPStats, error)

	// NewAnimEncoder creates an animation encoder for width x height frames.
	NewAnimEncoder(width, height int, anim WebPAnimOptions, cfg WebPConfig) (WebPAnimEncoder, error)
}

// WebPAnimEncoder is one native WebP animation encoder instance.
type WebPAnimEncoder interface {
	// Add submits a frame shown from timestampMs.
	Add(f *Frame, timestampMs int) error

	// Finalize submits the end timestamp and assembles the animation.
	Finalize(endTimestampMs int) ([]byte, error)

	// Close releases the native encoder.
	Close()
}

// EncoderError is a failure reported by a native encoder.
type EncoderError struct {
	Codec   string
	Op      string
	Code    int
	Message string
}

func (e *EncoderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s: %s (code %d)", e.Codec, e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Codec, e.Op, e.Message)
}
