// Package libavif implements ports.AVIFCodec on top of libavif.
package libavif

/*
#cgo !windows pkg-config: libavif
#cgo windows CFLAGS: -IC:/vcpkg/installed/x64-windows-static/include
#cgo windows LDFLAGS: -LC:/vcpkg/installed/x64-windows-static/lib -lavif -laom -ldav1d -static -lpthread
#include <avif/avif.h>
#include <stdlib.h>
#include <string.h>

static avifCodecChoice codec_choice(int c) {
    switch (c) {
    case 1: return AVIF_CODEC_CHOICE_AOM;
    case 2: return AVIF_CODEC_CHOICE_DAV1D;
    case 3: return AVIF_CODEC_CHOICE_LIBGAV1;
    case 4: return AVIF_CODEC_CHOICE_RAV1E;
    case 5: return AVIF_CODEC_CHOICE_SVT;
    default: return AVIF_CODEC_CHOICE_AUTO;
    }
}

static void configure_encoder(avifEncoder *enc, int codec, int threads, int q, int qa, int speed, uint64_t timescale) {
    enc->codecChoice = codec_choice(codec);
    enc->maxThreads = threads;
    enc->minQuantizer = q;
    enc->maxQuantizer = q;
    enc->minQuantizerAlpha = qa;
    enc->maxQuantizerAlpha = qa;
    enc->speed = speed;
    enc->timescale = timescale;
}

// Copies rows of a Go plane into an image plane with its own stride.
static void copy_plane(uint8_t *dst, uint32_t dstStride, const uint8_t *src, int srcStride, int rowBytes, int rows) {
    for (int y = 0; y < rows; y++) {
        memcpy(dst + (size_t)y * dstStride, src + (size_t)y * srcStride, rowBytes);
    }
}

static uint8_t *yuv_plane(avifImage *img, int i) { return img->yuvPlanes[i]; }
static uint32_t yuv_row_bytes(avifImage *img, int i) { return img->yuvRowBytes[i]; }

static size_t color_obu_size(avifEncoder *enc) { return enc->ioStats.colorOBUSize; }
static size_t alpha_obu_size(avifEncoder *enc) { return enc->ioStats.alphaOBUSize; }
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrUnsupportedFormat is returned for frames libavif cannot take as-is.
	ErrUnsupportedFormat = errors.New("libavif: unsupported pixel format")
	// ErrClosed is returned when an encoder is used after Close.
	ErrClosed = errors.New("libavif: encoder closed")
)

var codecChoices = map[string]C.int{
	"auto":    0,
	"aom":     1,
	"dav1d":   2,
	"libgav1": 3,
	"rav1e":   4,
	"svt":     5,
}

// Codec creates libavif encoders.
type Codec struct{}

// New returns the libavif codec.
func New() *Codec {
	return &Codec{}
}

// NewEncoder allocates a native encoder configured with settings.
func (c *Codec) NewEncoder(settings ports.AVIFEncoderSettings) (ports.AVIFEncoder, error) {
	choice, ok := codecChoices[settings.Codec]
	if !ok && settings.Codec != "" {
		return nil, fmt.Errorf("libavif: unknown codec %q", settings.Codec)
	}

	enc := C.avifEncoderCreate()
	if enc == nil {
		return nil, &ports.EncoderError{Codec: "libavif", Op: "create", Message: "avifEncoderCreate returned NULL"}
	}

	s := clampSettings(settings)
	C.configure_encoder(enc, choice, C.int(s.MaxThreads), C.int(s.Quantizer), C.int(s.QuantizerAlpha),
		C.int(s.Speed), C.uint64_t(s.Timescale))

	return &Encoder{enc: enc, settings: s}, nil
}

func clampSettings(s ports.AVIFEncoderSettings) ports.AVIFEncoderSettings {
	if s.Codec == "" {
		s.Codec = "auto"
	}
	if s.MaxThreads < 1 {
		s.MaxThreads = 1
	}
	s.Quantizer = clamp(s.Quantizer, 0, 63)
	s.QuantizerAlpha = clamp(s.QuantizerAlpha, 0, 63)
	s.Speed = clamp(s.Speed, 0, 10)
	if s.Timescale == 0 {
		s.Timescale = 1
	}
	return s
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

// Encoder wraps one avifEncoder. It belongs to a single goroutine.
type Encoder struct {
	enc      *C.avifEncoder
	settings ports.AVIFEncoderSettings
	added    int
}

// AddImage appends f to the image sequence.
func (e *Encoder) AddImage(f *ports.Frame, durationInTimescales uint64) error {
	if e.enc == nil {
		return ErrClosed
	}

	img, err := newImage(f)
	if err != nil {
		return err
	}
	defer C.avifImageDestroy(img)

	res := C.avifEncoderAddImage(e.enc, img, C.uint64_t(durationInTimescales), C.AVIF_ADD_IMAGE_FLAG_NONE)
	if res != C.AVIF_RESULT_OK {
		return resultError("add image", res)
	}
	e.added++
	return nil
}

// Finish completes the sequence.
func (e *Encoder) Finish() ([]byte, error) {
	if e.enc == nil {
		return nil, ErrClosed
	}

	var out C.avifRWData
	defer C.avifRWDataFree(&out)

	if res := C.avifEncoderFinish(e.enc, &out); res != C.AVIF_RESULT_OK {
		return nil, resultError("finish", res)
	}
	return C.GoBytes(unsafe.Pointer(out.data), C.int(out.size)), nil
}

// EncodeSingle encodes f as a still image.
func (e *Encoder) EncodeSingle(f *ports.Frame) ([]byte, error) {
	if e.enc == nil {
		return nil, ErrClosed
	}

	img, err := newImage(f)
	if err != nil {
		return nil, err
	}
	defer C.avifImageDestroy(img)

	var out C.avifRWData
	defer C.avifRWDataFree(&out)

	if res := C.avifEncoderWrite(e.enc, img, &out); res != C.AVIF_RESULT_OK {
		return nil, resultError("write", res)
	}
	e.added++
	return C.GoBytes(unsafe.Pointer(out.data), C.int(out.size)), nil
}

// Describe reports the encoder settings and the sizes of the emitted OBUs.
func (e *Encoder) Describe() string {
	s := e.settings
	desc := fmt.Sprintf("codec: %s, max_threads: %d, quantizer: %d, quantizer_alpha: %d, speed: %d, timescale: %d",
		s.Codec, s.MaxThreads, s.Quantizer, s.QuantizerAlpha, s.Speed, s.Timescale)
	if e.enc != nil && e.added > 0 {
		desc += fmt.Sprintf(", color_obu_size: %d, alpha_obu_size: %d",
			uint64(C.color_obu_size(e.enc)), uint64(C.alpha_obu_size(e.enc)))
	}
	return desc
}

// Close releases the native encoder.
func (e *Encoder) Close() {
	if e.enc != nil {
		C.avifEncoderDestroy(e.enc)
		e.enc = nil
	}
}

func yuvFormat(f ports.PixelFormat) (C.avifPixelFormat, bool) {
	switch f {
	case ports.PixelFormatYUV420P:
		return C.AVIF_PIXEL_FORMAT_YUV420, true
	case ports.PixelFormatYUV422P:
		return C.AVIF_PIXEL_FORMAT_YUV422, true
	case ports.PixelFormatYUV444P, ports.PixelFormatYUVA444P:
		return C.AVIF_PIXEL_FORMAT_YUV444, true
	}
	return 0, false
}

// newImage copies the frame's planes into a freshly allocated avifImage.
// The caller destroys the image.
func newImage(f *ports.Frame) (*C.avifImage, error) {
	pf, ok := yuvFormat(f.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Format)
	}
	sizes := f.Format.Planes(f.Width, f.Height)
	if len(f.Planes) < len(sizes) || len(f.Strides) < len(sizes) {
		return nil, fmt.Errorf("%w: %s frame has %d planes", ErrUnsupportedFormat, f.Format, len(f.Planes))
	}

	img := C.avifImageCreate(C.uint32_t(f.Width), C.uint32_t(f.Height), 8, pf)
	if img == nil {
		return nil, &ports.EncoderError{Codec: "libavif", Op: "image", Message: "avifImageCreate returned NULL"}
	}

	planes := C.int(C.AVIF_PLANES_YUV)
	if f.HasAlpha() {
		planes = C.int(C.AVIF_PLANES_ALL)
	}
	if res := C.avifImageAllocatePlanes(img, C.avifPlanesFlags(planes)); res != C.AVIF_RESULT_OK {
		C.avifImageDestroy(img)
		return nil, resultError("allocate planes", res)
	}

	for i := 0; i < 3; i++ {
		C.copy_plane(C.yuv_plane(img, C.int(i)), C.yuv_row_bytes(img, C.int(i)),
			(*C.uint8_t)(unsafe.Pointer(&f.Planes[i][0])), C.int(f.Strides[i]),
			C.int(sizes[i].Width), C.int(sizes[i].Height))
	}
	if f.HasAlpha() {
		C.copy_plane(img.alphaPlane, img.alphaRowBytes,
			(*C.uint8_t)(unsafe.Pointer(&f.Planes[3][0])), C.int(f.Strides[3]),
			C.int(sizes[3].Width), C.int(sizes[3].Height))
	}
	return img, nil
}

func resultError(op string, res C.avifResult) error {
	return &ports.EncoderError{
		Codec:   "libavif",
		Op:      op,
		Code:    int(res),
		Message: C.GoString(C.avifResultToString(res)),
	}
}

var (
	_ ports.AVIFCodec   = (*Codec)(nil)
	_ ports.AVIFEncoder = (*Encoder)(nil)
)
