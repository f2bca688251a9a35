package ports

import (
	"fmt"
	"image"
	"strings"
)

// PixelFormat identifies the memory layout of a decoded picture.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatYUV420P
	PixelFormatYUV422P
	PixelFormatYUV444P
	PixelFormatYUVA420P
	PixelFormatYUVA422P
	PixelFormatYUVA444P
	PixelFormatNV12
	PixelFormatRGB24
	PixelFormatRGBA
	PixelFormatBGRA
	PixelFormatARGB
	PixelFormatABGR
	// PixelFormatOther is a real decoder format with no planar model here.
	// It is treated as opaque and can only be resampled, never exported.
	PixelFormatOther
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUnknown:  "unknown",
	PixelFormatYUV420P:  "yuv420p",
	PixelFormatYUV422P:  "yuv422p",
	PixelFormatYUV444P:  "yuv444p",
	PixelFormatYUVA420P: "yuva420p",
	PixelFormatYUVA422P: "yuva422p",
	PixelFormatYUVA444P: "yuva444p",
	PixelFormatNV12:     "nv12",
	PixelFormatRGB24:    "rgb24",
	PixelFormatRGBA:     "rgba",
	PixelFormatBGRA:     "bgra",
	PixelFormatARGB:     "argb",
	PixelFormatABGR:     "abgr",
	PixelFormatOther:    "other",
}

// String returns the ffmpeg-style name of the format.
func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("pixfmt(%d)", int(f))
}

// ParsePixelFormat parses an ffmpeg-style format name.
// Unrecognized names map to PixelFormatUnknown.
func ParsePixelFormat(s string) PixelFormat {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range pixelFormatNames {
		if name == s {
			return f
		}
	}
	return PixelFormatUnknown
}

// PlaneSize is the byte geometry of one plane.
type PlaneSize struct {
	Width  int // bytes per row
	Height int // rows
}

// Planes returns the tightly packed plane geometry of a width x height
// picture in this format. It returns nil for PixelFormatUnknown.
func (f PixelFormat) Planes(width, height int) []PlaneSize {
	cw, ch := (width+1)/2, (height+1)/2
	switch f {
	case PixelFormatYUV420P:
		return []PlaneSize{{width, height}, {cw, ch}, {cw, ch}}
	case PixelFormatYUV422P:
		return []PlaneSize{{width, height}, {cw, height}, {cw, height}}
	case PixelFormatYUV444P:
		return []PlaneSize{{width, height}, {width, height}, {width, height}}
	case PixelFormatYUVA420P:
		return []PlaneSize{{width, height}, {cw, ch}, {cw, ch}, {width, height}}
	case PixelFormatYUVA422P:
		return []PlaneSize{{width, height}, {cw, height}, {cw, height}, {width, height}}
	case PixelFormatYUVA444P:
		return []PlaneSize{{width, height}, {width, height}, {width, height}, {width, height}}
	case PixelFormatNV12:
		return []PlaneSize{{width, height}, {cw * 2, ch}}
	case PixelFormatRGB24:
		return []PlaneSize{{width * 3, height}}
	case PixelFormatRGBA, PixelFormatBGRA, PixelFormatARGB, PixelFormatABGR:
		return []PlaneSize{{width * 4, height}}
	default:
		return nil
	}
}

// Frame is one decoded picture. The holder of a *Frame owns its buffers;
// once a frame is sent to the next stage the sender must not touch it again.
type Frame struct {
	Format  PixelFormat
	Width   int
	Height  int
	Planes  [][]byte
	Strides []int
}

// NewFrame allocates a frame with tightly packed planes.
func NewFrame(format PixelFormat, width, height int) (*Frame, error) {
	sizes := format.Planes(width, height)
	if sizes == nil {
		return nil, fmt.Errorf("ports: cannot allocate frame in format %s", format)
	}
	f := &Frame{
		Format:  format,
		Width:   width,
		Height:  height,
		Planes:  make([][]byte, len(sizes)),
		Strides: make([]int, len(sizes)),
	}
	for i, s := range sizes {
		f.Planes[i] = make([]byte, s.Width*s.Height)
		f.Strides[i] = s.Width
	}
	return f, nil
}

// FrameFromPacked splits a buffer holding tightly packed planes
// (as produced by av_image_copy_to_buffer with align 1) into a Frame.
func FrameFromPacked(format PixelFormat, width, height int, buf []byte) (*Frame, error) {
	sizes := format.Planes(width, height)
	if sizes == nil {
		return nil, fmt.Errorf("ports: unsupported packed format %s", format)
	}
	f := &Frame{
		Format:  format,
		Width:   width,
		Height:  height,
		Planes:  make([][]byte, len(sizes)),
		Strides: make([]int, len(sizes)),
	}
	off := 0
	for i, s := range sizes {
		n := s.Width * s.Height
		if off+n > len(buf) {
			return nil, fmt.Errorf("ports: packed buffer too small for %s %dx%d: %d bytes", format, width, height, len(buf))
		}
		f.Planes[i] = buf[off : off+n : off+n]
		f.Strides[i] = s.Width
		off += n
	}
	return f, nil
}

// HasAlpha reports whether the frame carries an alpha channel.
func (f *Frame) HasAlpha() bool {
	switch f.Format {
	case PixelFormatYUVA420P, PixelFormatYUVA422P, PixelFormatYUVA444P,
		PixelFormatRGBA, PixelFormatBGRA, PixelFormatARGB, PixelFormatABGR:
		return true
	}
	return false
}

// Image exposes the frame as an image.Image for planar YUV formats and RGBA.
// The returned image shares no memory with the frame.
func (f *Frame) Image() (image.Image, error) {
	rect := image.Rect(0, 0, f.Width, f.Height)
	var ratio image.YCbCrSubsampleRatio
	switch f.Format {
	case PixelFormatYUV420P, PixelFormatYUVA420P:
		ratio = image.YCbCrSubsampleRatio420
	case PixelFormatYUV422P, PixelFormatYUVA422P:
		ratio = image.YCbCrSubsampleRatio422
	case PixelFormatYUV444P, PixelFormatYUVA444P:
		ratio = image.YCbCrSubsampleRatio444
	case PixelFormatRGBA:
		img := image.NewNRGBA(rect)
		copyPlane(img.Pix, img.Stride, f.Planes[0], f.Strides[0], f.Width*4, f.Height)
		return img, nil
	default:
		return nil, fmt.Errorf("ports: no image view for %s", f.Format)
	}

	if f.HasAlpha() {
		img := image.NewNYCbCrA(rect, ratio)
		f.copyYCbCr(&img.YCbCr)
		copyPlane(img.A, img.AStride, f.Planes[3], f.Strides[3], f.Width, f.Height)
		return img, nil
	}
	img := image.NewYCbCr(rect, ratio)
	f.copyYCbCr(img)
	return img, nil
}

func (f *Frame) copyYCbCr(img *image.YCbCr) {
	sizes := f.Format.Planes(f.Width, f.Height)
	copyPlane(img.Y, img.YStride, f.Planes[0], f.Strides[0], sizes[0].Width, sizes[0].Height)
	copyPlane(img.Cb, img.CStride, f.Planes[1], f.Strides[1], sizes[1].Width, sizes[1].Height)
	copyPlane(img.Cr, img.CStride, f.Planes[2], f.Strides[2], sizes[2].Width, sizes[2].Height)
}

func copyPlane(dst []byte, dstStride int, src []byte, srcStride, rowBytes, rows int) {
	for y := 0; y < rows; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

// Rational is a fraction such as a stream time base or frame rate.
type Rational struct {
	Num int64
	Den int64
}

// Valid reports whether the rational has a non-zero denominator.
func (r Rational) Valid() bool {
	return r.Den != 0
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Timing is the presentation time of a frame in stream time-base units.
type Timing struct {
	Timestamp int64
	TimeBase  Rational
	// Duration is the nominal frame duration in time-base units, 0 if unknown.
	Duration int64
}

// Milliseconds converts the timestamp to milliseconds, truncating.
func (t Timing) Milliseconds() int64 {
	return 1000 * t.Timestamp * t.TimeBase.Num / t.TimeBase.Den
}

// FramePacket is the unit carried between the decode and encode stages.
type FramePacket struct {
	Frame  *Frame
	Timing Timing
}

// AcceptedFormats lists the pixel formats an encoder consumes directly.
// The first entry of each list is the resample target for that class.
type AcceptedFormats struct {
	Opaque []PixelFormat
	Alpha  []PixelFormat
}
