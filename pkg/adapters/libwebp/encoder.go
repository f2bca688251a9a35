// Package libwebp implements ports.WebPCodec on top of libwebp and libwebpmux.
package libwebp

/*
#cgo !windows pkg-config: libwebp libwebpmux
#cgo windows CFLAGS: -IC:/vcpkg/installed/x64-windows-static/include
#cgo windows LDFLAGS: -LC:/vcpkg/installed/x64-windows-static/lib -lwebpmux -lwebp -lsharpyuv -static -lpthread
#include <webp/encode.h>
#include <webp/mux.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

extern int goWebPWrite(uint8_t *data, size_t size, uintptr_t handle);

static int write_trampoline(const uint8_t *data, size_t size, const WebPPicture *pic) {
    return goWebPWrite((uint8_t *)data, size, (uintptr_t)pic->custom_ptr);
}

static int init_config(WebPConfig *cfg, int preset) {
    return WebPConfigPreset(cfg, (WebPPreset)preset, 75.5f);
}

static WebPPicture *new_picture(int width, int height, int alpha) {
    WebPPicture *pic = malloc(sizeof(WebPPicture));
    if (pic == NULL) return NULL;
    if (!WebPPictureInit(pic)) {
        free(pic);
        return NULL;
    }
    pic->use_argb = 0;
    pic->colorspace = alpha ? WEBP_YUV420A : WEBP_YUV420;
    pic->width = width;
    pic->height = height;
    if (!WebPPictureAlloc(pic)) {
        free(pic);
        return NULL;
    }
    return pic;
}

static void free_picture(WebPPicture *pic) {
    if (pic == NULL) return;
    free(pic->stats);
    pic->stats = NULL;
    WebPPictureFree(pic);
    free(pic);
}

static int attach_writer(WebPPicture *pic, uintptr_t handle) {
    pic->writer = write_trampoline;
    pic->custom_ptr = (void *)handle;
    pic->stats = malloc(sizeof(WebPAuxStats));
    if (pic->stats == NULL) return 0;
    memset(pic->stats, 0, sizeof(WebPAuxStats));
    return 1;
}

static void copy_plane(uint8_t *dst, int dstStride, const uint8_t *src, int srcStride, int rowBytes, int rows) {
    for (int y = 0; y < rows; y++) {
        memcpy(dst + (size_t)y * dstStride, src + (size_t)y * srcStride, rowBytes);
    }
}

static int init_anim_options(WebPAnimEncoderOptions *opts) {
    return WebPAnimEncoderOptionsInit(opts);
}

static WebPAnimEncoder *new_anim_encoder(int width, int height, const WebPAnimEncoderOptions *opts) {
    return WebPAnimEncoderNew(width, height, opts);
}

static void clear_data(WebPData *data) {
    WebPDataClear(data);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"io"
	"runtime/cgo"
	"unsafe"

	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrInvalidConfig is returned when libwebp rejects the configuration.
	ErrInvalidConfig = errors.New("libwebp: invalid config")
	// ErrUnsupportedFormat is returned for frames that are not YUV(A)420P.
	ErrUnsupportedFormat = errors.New("libwebp: unsupported pixel format")
	// ErrClosed is returned when an animation encoder is used after Close.
	ErrClosed = errors.New("libwebp: encoder closed")
)

var encodingErrors = map[C.WebPEncodingError]string{
	C.VP8_ENC_ERROR_OUT_OF_MEMORY:           "out of memory",
	C.VP8_ENC_ERROR_BITSTREAM_OUT_OF_MEMORY: "bitstream out of memory",
	C.VP8_ENC_ERROR_NULL_PARAMETER:          "null parameter",
	C.VP8_ENC_ERROR_INVALID_CONFIGURATION:   "invalid configuration",
	C.VP8_ENC_ERROR_BAD_DIMENSION:           "bad picture dimension",
	C.VP8_ENC_ERROR_PARTITION0_OVERFLOW:     "partition 0 overflow",
	C.VP8_ENC_ERROR_PARTITION_OVERFLOW:      "partition overflow",
	C.VP8_ENC_ERROR_BAD_WRITE:               "bad write",
	C.VP8_ENC_ERROR_FILE_TOO_BIG:            "file too big",
	C.VP8_ENC_ERROR_USER_ABORT:              "user abort",
}

// Codec is the libwebp encode service.
type Codec struct{}

// New returns the libwebp codec.
func New() *Codec {
	return &Codec{}
}

// EncodeStill encodes f with WebPEncode, streaming output chunks to sink.
func (c *Codec) EncodeStill(f *ports.Frame, cfg ports.WebPConfig, sink io.Writer) (*ports.WebPStats, error) {
	config, err := newConfig(cfg)
	if err != nil {
		return nil, err
	}

	pic, err := newPicture(f)
	if err != nil {
		return nil, err
	}
	defer C.free_picture(pic)

	sw := &stillWriter{w: sink}
	h := cgo.NewHandle(sw)
	defer h.Delete()

	if C.attach_writer(pic, C.uintptr_t(h)) == 0 {
		return nil, &ports.EncoderError{Codec: "libwebp", Op: "encode", Message: "cannot allocate stats"}
	}

	if C.WebPEncode(&config, pic) == 0 {
		if sw.err != nil {
			return nil, fmt.Errorf("libwebp: write: %w", sw.err)
		}
		return nil, pictureError("encode", pic)
	}
	return readStats(pic.stats), nil
}

// NewAnimEncoder creates a WebPAnimEncoder for a width x height canvas.
func (c *Codec) NewAnimEncoder(width, height int, anim ports.WebPAnimOptions, cfg ports.WebPConfig) (ports.WebPAnimEncoder, error) {
	config, err := newConfig(cfg)
	if err != nil {
		return nil, err
	}

	var opts C.WebPAnimEncoderOptions
	if C.init_anim_options(&opts) == 0 {
		return nil, &ports.EncoderError{Codec: "libwebp", Op: "anim options", Message: "version mismatch"}
	}
	applyAnimOptions(&opts, anim)

	enc := C.new_anim_encoder(C.int(width), C.int(height), &opts)
	if enc == nil {
		return nil, &ports.EncoderError{Codec: "libwebp", Op: "anim create", Message: "WebPAnimEncoderNew returned NULL"}
	}
	return &AnimEncoder{enc: enc, config: config}, nil
}

func newConfig(cfg ports.WebPConfig) (C.WebPConfig, error) {
	var config C.WebPConfig
	if C.init_config(&config, C.int(cfg.Preset)) == 0 {
		return config, &ports.EncoderError{Codec: "libwebp", Op: "config", Message: "version mismatch"}
	}
	applyConfig(&config, cfg)
	if C.WebPValidateConfig(&config) == 0 {
		return config, ErrInvalidConfig
	}
	return config, nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func applyConfig(c *C.WebPConfig, cfg ports.WebPConfig) {
	if v := cfg.Lossless; v != nil {
		c.lossless = cbool(*v)
	}
	if v := cfg.Quality; v != nil {
		c.quality = C.float(*v)
	}
	if v := cfg.Method; v != nil {
		c.method = C.int(*v)
	}
	if v := cfg.ImageHint; v != nil {
		c.image_hint = C.WebPImageHint(*v)
	}
	if v := cfg.TargetSize; v != nil {
		c.target_size = C.int(*v)
	}
	if v := cfg.TargetPSNR; v != nil {
		c.target_PSNR = C.float(*v)
	}
	if v := cfg.Segments; v != nil {
		c.segments = C.int(*v)
	}
	if v := cfg.SNSStrength; v != nil {
		c.sns_strength = C.int(*v)
	}
	if v := cfg.FilterStrength; v != nil {
		c.filter_strength = C.int(*v)
	}
	if v := cfg.FilterSharpness; v != nil {
		c.filter_sharpness = C.int(*v)
	}
	if v := cfg.StrongFilter; v != nil {
		c.filter_type = cbool(*v)
	}
	if v := cfg.Autofilter; v != nil {
		c.autofilter = cbool(*v)
	}
	if v := cfg.AlphaCompression; v != nil {
		c.alpha_compression = cbool(*v)
	}
	if v := cfg.AlphaFiltering; v != nil {
		c.alpha_filtering = C.int(*v)
	}
	if v := cfg.AlphaQuality; v != nil {
		c.alpha_quality = C.int(*v)
	}
	if v := cfg.Pass; v != nil {
		c.pass = C.int(*v)
	}
	if v := cfg.ShowCompressed; v != nil {
		c.show_compressed = cbool(*v)
	}
	if v := cfg.Preprocessing; v != nil {
		c.preprocessing = C.int(*v)
	}
	if v := cfg.Partitions; v != nil {
		c.partitions = C.int(*v)
	}
	if v := cfg.PartitionLimit; v != nil {
		c.partition_limit = C.int(*v)
	}
	if v := cfg.EmulateJPEGSize; v != nil {
		c.emulate_jpeg_size = cbool(*v)
	}
	if v := cfg.ThreadLevel; v != nil {
		c.thread_level = cbool(*v)
	}
	if v := cfg.LowMemory; v != nil {
		c.low_memory = cbool(*v)
	}
	if v := cfg.NearLossless; v != nil {
		c.near_lossless = C.int(*v)
	}
	if v := cfg.Exact; v != nil {
		c.exact = cbool(*v)
	}
	if v := cfg.UseDeltaPalette; v != nil {
		c.use_delta_palette = cbool(*v)
	}
	if v := cfg.UseSharpYUV; v != nil {
		c.use_sharp_yuv = cbool(*v)
	}
}

func applyAnimOptions(o *C.WebPAnimEncoderOptions, anim ports.WebPAnimOptions) {
	if v := anim.MinimizeSize; v != nil {
		o.minimize_size = cbool(*v)
	}
	if v := anim.KeyframeDistance; v != nil {
		o.kmin = C.int(v.Min)
		o.kmax = C.int(v.Max)
	}
	if v := anim.AllowMixed; v != nil {
		o.allow_mixed = cbool(*v)
	}
	if v := anim.BackgroundColor; v != nil {
		o.anim_params.bgcolor = C.uint32_t(*v)
	}
	if v := anim.LoopCount; v != nil {
		o.anim_params.loop_count = C.int(*v)
	}
}

// newPicture allocates a native YUV(A)420 picture holding a copy of f.
func newPicture(f *ports.Frame) (*C.WebPPicture, error) {
	alpha := false
	switch f.Format {
	case ports.PixelFormatYUV420P:
	case ports.PixelFormatYUVA420P:
		alpha = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Format)
	}
	sizes := f.Format.Planes(f.Width, f.Height)
	if len(f.Planes) < len(sizes) || len(f.Strides) < len(sizes) {
		return nil, fmt.Errorf("%w: %s frame has %d planes", ErrUnsupportedFormat, f.Format, len(f.Planes))
	}

	pic := C.new_picture(C.int(f.Width), C.int(f.Height), cbool(alpha))
	if pic == nil {
		return nil, &ports.EncoderError{Codec: "libwebp", Op: "picture", Message: "cannot allocate picture"}
	}

	copyPlane(pic.y, pic.y_stride, f, 0, sizes[0])
	copyPlane(pic.u, pic.uv_stride, f, 1, sizes[1])
	copyPlane(pic.v, pic.uv_stride, f, 2, sizes[2])
	if alpha {
		copyPlane(pic.a, pic.a_stride, f, 3, sizes[3])
	}
	return pic, nil
}

func copyPlane(dst *C.uint8_t, dstStride C.int, f *ports.Frame, i int, size ports.PlaneSize) {
	if size.Width == 0 || size.Height == 0 {
		return
	}
	C.copy_plane(dst, dstStride, (*C.uint8_t)(unsafe.Pointer(&f.Planes[i][0])), C.int(f.Strides[i]),
		C.int(size.Width), C.int(size.Height))
}

func pictureError(op string, pic *C.WebPPicture) error {
	msg, ok := encodingErrors[pic.error_code]
	if !ok {
		msg = "unknown error"
	}
	return &ports.EncoderError{Codec: "libwebp", Op: op, Code: int(pic.error_code), Message: msg}
}

func readStats(st *C.WebPAuxStats) *ports.WebPStats {
	if st == nil {
		return nil
	}
	s := &ports.WebPStats{
		CodedSize:     int(st.coded_size),
		AlphaDataSize: int(st.alpha_data_size),
		LosslessSize:  int(st.lossless_size),
	}
	for i := range s.PSNR {
		s.PSNR[i] = float32(st.PSNR[i])
	}
	for i := range s.BlockCount {
		s.BlockCount[i] = int(st.block_count[i])
	}
	for i := range s.HeaderBytes {
		s.HeaderBytes[i] = int(st.header_bytes[i])
	}
	return s
}

// stillWriter receives WebPEncode output through goWebPWrite.
type stillWriter struct {
	w   io.Writer
	err error
}

func (s *stillWriter) write(p []byte) bool {
	if s.err != nil {
		return false
	}
	if _, err := s.w.Write(p); err != nil {
		s.err = err
		return false
	}
	return true
}

// AnimEncoder wraps one WebPAnimEncoder. It belongs to a single goroutine.
type AnimEncoder struct {
	enc    *C.WebPAnimEncoder
	config C.WebPConfig
}

// Add encodes f shown from timestampMs.
func (a *AnimEncoder) Add(f *ports.Frame, timestampMs int) error {
	if a.enc == nil {
		return ErrClosed
	}
	pic, err := newPicture(f)
	if err != nil {
		return err
	}
	defer C.free_picture(pic)

	if C.WebPAnimEncoderAdd(a.enc, pic, C.int(timestampMs), &a.config) == 0 {
		return a.lastError("add")
	}
	return nil
}

// Finalize adds the closing NULL frame at endTimestampMs and assembles the
// animation.
func (a *AnimEncoder) Finalize(endTimestampMs int) ([]byte, error) {
	if a.enc == nil {
		return nil, ErrClosed
	}
	if C.WebPAnimEncoderAdd(a.enc, nil, C.int(endTimestampMs), nil) == 0 {
		return nil, a.lastError("add")
	}

	var data C.WebPData
	defer C.clear_data(&data)

	if C.WebPAnimEncoderAssemble(a.enc, &data) == 0 {
		return nil, a.lastError("assemble")
	}
	return C.GoBytes(unsafe.Pointer(data.bytes), C.int(data.size)), nil
}

// Close releases the native encoder.
func (a *AnimEncoder) Close() {
	if a.enc != nil {
		C.WebPAnimEncoderDelete(a.enc)
		a.enc = nil
	}
}

func (a *AnimEncoder) lastError(op string) error {
	msg := C.GoString(C.WebPAnimEncoderGetError(a.enc))
	if msg == "" {
		msg = "unknown error"
	}
	return &ports.EncoderError{Codec: "libwebp", Op: op, Message: msg}
}

var (
	_ ports.WebPCodec       = (*Codec)(nil)
	_ ports.WebPAnimEncoder = (*AnimEncoder)(nil)
)
