package ffsource

import (
	"github.com/asticode/go-astiav"
	"github.com/user/vidanim/pkg/ports"
)

var toAstiav = map[ports.PixelFormat]astiav.PixelFormat{
	ports.PixelFormatYUV420P:  astiav.PixelFormatYuv420P,
	ports.PixelFormatYUV422P:  astiav.PixelFormatYuv422P,
	ports.PixelFormatYUV444P:  astiav.PixelFormatYuv444P,
	ports.PixelFormatYUVA420P: astiav.PixelFormatYuva420P,
	ports.PixelFormatYUVA422P: astiav.PixelFormatYuva422P,
	ports.PixelFormatYUVA444P: astiav.PixelFormatYuva444P,
	ports.PixelFormatNV12:     astiav.PixelFormatNv12,
	ports.PixelFormatRGB24:    astiav.PixelFormatRgb24,
	ports.PixelFormatRGBA:     astiav.PixelFormatRgba,
	ports.PixelFormatBGRA:     astiav.PixelFormatBgra,
	ports.PixelFormatARGB:     astiav.PixelFormatArgb,
	ports.PixelFormatABGR:     astiav.PixelFormatAbgr,
}

var fromAstiav = func() map[astiav.PixelFormat]ports.PixelFormat {
	m := make(map[astiav.PixelFormat]ports.PixelFormat, len(toAstiav))
	for k, v := range toAstiav {
		m[v] = k
	}
	return m
}()

// FromAstiav maps a native pixel format. PixelFormatNone is Unknown;
// any other unmapped format is Other.
func FromAstiav(f astiav.PixelFormat) ports.PixelFormat {
	if f == astiav.PixelFormatNone {
		return ports.PixelFormatUnknown
	}
	if p, ok := fromAstiav[f]; ok {
		return p
	}
	return ports.PixelFormatOther
}

// ToAstiav maps a pixel format to its native value.
func ToAstiav(f ports.PixelFormat) (astiav.PixelFormat, bool) {
	p, ok := toAstiav[f]
	return p, ok
}
