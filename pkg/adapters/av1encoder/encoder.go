// Package av1encoder encodes YUV 4:2:0 frames to AV1 with libaom and muxes
// them into a fragmented MP4. It produces the synthetic input clips of the
// testclip tool and the end-to-end tests.
package av1encoder

/*
#cgo !windows pkg-config: aom
#cgo windows CFLAGS: -IC:/vcpkg/installed/x64-windows-static/include
#cgo windows LDFLAGS: -LC:/vcpkg/installed/x64-windows-static/lib -laom -static -lpthread
#include <aom/aom_encoder.h>
#include <aom/aomcx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_interface() {
    return aom_codec_av1_cx();
}

// aom_codec_enc_init is a macro.
static aom_codec_err_t init_encoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface,
                                     aom_codec_enc_cfg_t *cfg, aom_codec_flags_t flags) {
    return aom_codec_enc_init_ver(ctx, iface, cfg, flags, AOM_ENCODER_ABI_VERSION);
}

static int is_frame_packet(const aom_codec_cx_pkt_t *pkt) {
    return pkt->kind == AOM_CODEC_CX_FRAME_PKT;
}

static void* get_frame_buf(const aom_codec_cx_pkt_t *pkt) {
    return pkt->data.frame.buf;
}

static size_t get_frame_sz(const aom_codec_cx_pkt_t *pkt) {
    return pkt->data.frame.sz;
}

static int is_keyframe(const aom_codec_cx_pkt_t *pkt) {
    return (pkt->data.frame.flags & AOM_FRAME_IS_KEY) != 0;
}

static aom_codec_pts_t get_frame_pts(const aom_codec_cx_pkt_t *pkt) {
    return pkt->data.frame.pts;
}

static void copy_plane(aom_image_t *img, int plane, const uint8_t *src, int src_stride, int row_bytes, int rows) {
    uint8_t *dst = img->planes[plane];
    int dst_stride = img->stride[plane];
    for (int y = 0; y < rows; y++) {
        memcpy(dst + (size_t)y * dst_stride, src + (size_t)y * src_stride, row_bytes);
    }
}

// aom_codec_control is variadic.
static aom_codec_err_t set_cpu_used(aom_codec_ctx_t *ctx, int value) {
    return aom_codec_control(ctx, AOME_SET_CPUUSED, value);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrUnsupportedFormat is returned for frames that are not YUV420P or
	// do not match the clip size.
	ErrUnsupportedFormat = errors.New("av1encoder: unsupported frame")
	// ErrNoFrames is returned by Finish when nothing was encoded.
	ErrNoFrames = errors.New("av1encoder: no frames to mux")
	// ErrClosed is returned after Finish or Close.
	ErrClosed = errors.New("av1encoder: encoder closed")
)

// Options tune libaom. Zero values select the defaults.
type Options struct {
	// Quantizer is the constant quality level, 0..63.
	Quantizer int
	// CPUUsed trades quality for speed, 0..10.
	CPUUsed int
	Threads int
}

// DefaultOptions favours speed: the clips are inputs, not deliverables.
func DefaultOptions() Options {
	return Options{Quantizer: 30, CPUUsed: 8, Threads: 4}
}

// Encoder encodes one clip. Frames are presented at a constant rate.
type Encoder struct {
	mu sync.Mutex

	codec *C.aom_codec_ctx_t
	cfg   *C.aom_codec_enc_cfg_t
	raw   *C.aom_image_t

	width  int
	height int
	// One tick of the MP4 track is 1/timescale seconds, one frame lasts
	// frameTicks ticks.
	timescale  uint32
	frameTicks uint32

	samples []sample
	added   int
}

type sample struct {
	data     []byte
	pts      int64
	keyframe bool
}

// New starts a clip of width x height at frameRate frames per second.
func New(width, height int, frameRate ports.Rational, opts Options) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("av1encoder: invalid size %dx%d", width, height)
	}
	if frameRate.Num <= 0 || frameRate.Den <= 0 {
		return nil, fmt.Errorf("av1encoder: invalid frame rate %s", frameRate)
	}
	def := DefaultOptions()
	if opts.Quantizer <= 0 || opts.Quantizer > 63 {
		opts.Quantizer = def.Quantizer
	}
	if opts.CPUUsed <= 0 || opts.CPUUsed > 10 {
		opts.CPUUsed = def.CPUUsed
	}
	if opts.Threads <= 0 {
		opts.Threads = def.Threads
	}

	e := &Encoder{
		width:      width,
		height:     height,
		timescale:  uint32(frameRate.Num),
		frameTicks: uint32(frameRate.Den),
	}

	e.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	C.memset(unsafe.Pointer(e.codec), 0, C.sizeof_aom_codec_ctx_t)
	e.cfg = (*C.aom_codec_enc_cfg_t)(C.malloc(C.sizeof_aom_codec_enc_cfg_t))

	iface := C.get_av1_interface()
	if res := C.aom_codec_enc_config_default(iface, e.cfg, C.AOM_USAGE_REALTIME); res != C.AOM_CODEC_OK {
		e.cleanup(false)
		return nil, fmt.Errorf("av1encoder: default config: %s", C.GoString(C.aom_codec_err_to_string(res)))
	}

	e.cfg.g_w = C.uint(width)
	e.cfg.g_h = C.uint(height)
	e.cfg.g_timebase.num = 1
	e.cfg.g_timebase.den = C.int(e.timescale)
	e.cfg.g_threads = C.uint(opts.Threads)
	e.cfg.g_usage = C.AOM_USAGE_REALTIME
	e.cfg.g_lag_in_frames = 0
	e.cfg.rc_end_usage = C.AOM_Q
	e.cfg.rc_min_quantizer = C.uint(opts.Quantizer)
	e.cfg.rc_max_quantizer = C.uint(opts.Quantizer)

	if res := C.init_encoder(e.codec, iface, e.cfg, 0); res != C.AOM_CODEC_OK {
		e.cleanup(false)
		return nil, fmt.Errorf("av1encoder: init: %s", C.GoString(C.aom_codec_err_to_string(res)))
	}
	C.set_cpu_used(e.codec, C.int(opts.CPUUsed))

	e.raw = (*C.aom_image_t)(C.malloc(C.sizeof_aom_image_t))
	if C.aom_img_alloc(e.raw, C.AOM_IMG_FMT_I420, C.uint(width), C.uint(height), 32) == nil {
		C.free(unsafe.Pointer(e.raw))
		e.raw = nil
		e.cleanup(true)
		return nil, errors.New("av1encoder: cannot allocate image")
	}
	return e, nil
}

// Encode appends f as the next frame of the clip.
func (e *Encoder) Encode(f *ports.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.codec == nil {
		return ErrClosed
	}
	if f.Format != ports.PixelFormatYUV420P || f.Width != e.width || f.Height != e.height {
		return fmt.Errorf("%w: %s %dx%d, want yuv420p %dx%d", ErrUnsupportedFormat, f.Format, f.Width, f.Height, e.width, e.height)
	}

	for i, s := range f.Format.Planes(f.Width, f.Height) {
		C.copy_plane(e.raw, C.int(i), (*C.uint8_t)(unsafe.Pointer(&f.Planes[i][0])),
			C.int(f.Strides[i]), C.int(s.Width), C.int(s.Height))
	}

	var flags C.aom_enc_frame_flags_t
	if e.added == 0 {
		flags = C.AOM_EFLAG_FORCE_KF
	}
	pts := C.aom_codec_pts_t(int64(e.added) * int64(e.frameTicks))
	if res := C.aom_codec_encode(e.codec, e.raw, pts, C.ulong(e.frameTicks), flags); res != C.AOM_CODEC_OK {
		return fmt.Errorf("av1encoder: encode frame %d: %s", e.added, C.GoString(C.aom_codec_err_to_string(res)))
	}
	e.added++
	e.collect()
	return nil
}

// Finish flushes the encoder and returns the MP4 file. The encoder is
// closed afterwards.
func (e *Encoder) Finish() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.codec == nil {
		return nil, ErrClosed
	}
	defer e.cleanup(true)

	for {
		if res := C.aom_codec_encode(e.codec, nil, 0, 0, 0); res != C.AOM_CODEC_OK {
			return nil, fmt.Errorf("av1encoder: flush: %s", C.GoString(C.aom_codec_err_to_string(res)))
		}
		if e.collect() == 0 {
			break
		}
	}
	return e.buildMP4()
}

// Close releases the encoder without producing output.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.codec != nil {
		e.cleanup(true)
	}
}

// collect moves ready packets into samples and returns how many it found.
func (e *Encoder) collect() int {
	n := 0
	var iter C.aom_codec_iter_t
	for {
		pkt := C.aom_codec_get_cx_data(e.codec, &iter)
		if pkt == nil {
			return n
		}
		if C.is_frame_packet(pkt) == 0 {
			continue
		}
		e.samples = append(e.samples, sample{
			data:     C.GoBytes(C.get_frame_buf(pkt), C.int(C.get_frame_sz(pkt))),
			pts:      int64(C.get_frame_pts(pkt)),
			keyframe: C.is_keyframe(pkt) != 0,
		})
		n++
	}
}

func (e *Encoder) cleanup(initialized bool) {
	if e.raw != nil {
		C.aom_img_free(e.raw)
		C.free(unsafe.Pointer(e.raw))
		e.raw = nil
	}
	if e.codec != nil {
		if initialized {
			C.aom_codec_destroy(e.codec)
		}
		C.free(unsafe.Pointer(e.codec))
		e.codec = nil
	}
	if e.cfg != nil {
		C.free(unsafe.Pointer(e.cfg))
		e.cfg = nil
	}
}
