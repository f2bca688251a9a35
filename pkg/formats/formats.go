// Package formats decides whether decoded frames can go to an encoder as-is
// or must be resampled first, and to which format.
package formats

import "github.com/user/vidanim/pkg/ports"

// alphaFormats is the fixed set of source formats treated as alpha-bearing.
var alphaFormats = map[ports.PixelFormat]bool{
	ports.PixelFormatARGB:     true,
	ports.PixelFormatABGR:     true,
	ports.PixelFormatBGRA:     true,
	ports.PixelFormatRGBA:     true,
	ports.PixelFormatYUVA444P: true,
	ports.PixelFormatYUVA420P: true,
	ports.PixelFormatYUVA422P: true,
}

// IsAlpha reports whether f is one of the known alpha-bearing formats.
func IsAlpha(f ports.PixelFormat) bool {
	return alphaFormats[f]
}

// Passes reports whether f is accepted directly, in either list.
func Passes(accepted ports.AcceptedFormats, f ports.PixelFormat) bool {
	return contains(accepted.Opaque, f) || contains(accepted.Alpha, f)
}

// Select returns the resample target for a source in format f: the first
// alpha format for alpha-bearing sources, the first opaque format otherwise.
// ok is false when the relevant list is empty.
func Select(accepted ports.AcceptedFormats, f ports.PixelFormat) (target ports.PixelFormat, ok bool) {
	list := accepted.Opaque
	if IsAlpha(f) {
		list = accepted.Alpha
	}
	if len(list) == 0 {
		return ports.PixelFormatUnknown, false
	}
	return list[0], true
}

func contains(list []ports.PixelFormat, f ports.PixelFormat) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}
