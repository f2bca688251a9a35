package formats

import (
	"testing"

	"github.com/user/vidanim/pkg/ports"
)

var allFormats = []ports.PixelFormat{
	ports.PixelFormatUnknown,
	ports.PixelFormatYUV420P,
	ports.PixelFormatYUV422P,
	ports.PixelFormatYUV444P,
	ports.PixelFormatYUVA420P,
	ports.PixelFormatYUVA422P,
	ports.PixelFormatYUVA444P,
	ports.PixelFormatNV12,
	ports.PixelFormatRGB24,
	ports.PixelFormatRGBA,
	ports.PixelFormatBGRA,
	ports.PixelFormatARGB,
	ports.PixelFormatABGR,
	ports.PixelFormatOther,
}

var avifAccepted = ports.AcceptedFormats{
	Opaque: []ports.PixelFormat{ports.PixelFormatYUV444P, ports.PixelFormatYUV420P, ports.PixelFormatYUV422P},
	Alpha:  []ports.PixelFormat{ports.PixelFormatYUVA444P},
}

var webpAccepted = ports.AcceptedFormats{
	Opaque: []ports.PixelFormat{ports.PixelFormatYUV420P},
	Alpha:  []ports.PixelFormat{ports.PixelFormatYUVA420P},
}

func TestIsAlpha(t *testing.T) {
	want := map[ports.PixelFormat]bool{
		ports.PixelFormatARGB:     true,
		ports.PixelFormatABGR:     true,
		ports.PixelFormatBGRA:     true,
		ports.PixelFormatRGBA:     true,
		ports.PixelFormatYUVA444P: true,
		ports.PixelFormatYUVA420P: true,
		ports.PixelFormatYUVA422P: true,
	}
	for _, f := range allFormats {
		if got := IsAlpha(f); got != want[f] {
			t.Errorf("IsAlpha(%s) = %v, want %v", f, got, want[f])
		}
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name     string
		accepted ports.AcceptedFormats
		format   ports.PixelFormat
		want     bool
	}{
		{"avif opaque first", avifAccepted, ports.PixelFormatYUV444P, true},
		{"avif opaque later entry", avifAccepted, ports.PixelFormatYUV422P, true},
		{"avif alpha", avifAccepted, ports.PixelFormatYUVA444P, true},
		{"avif rejects nv12", avifAccepted, ports.PixelFormatNV12, false},
		{"avif rejects yuva420p", avifAccepted, ports.PixelFormatYUVA420P, false},
		{"webp opaque", webpAccepted, ports.PixelFormatYUV420P, true},
		{"webp alpha", webpAccepted, ports.PixelFormatYUVA420P, true},
		{"webp rejects rgba", webpAccepted, ports.PixelFormatRGBA, false},
		{"empty lists", ports.AcceptedFormats{}, ports.PixelFormatYUV420P, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Passes(tt.accepted, tt.format); got != tt.want {
				t.Errorf("Passes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect_AllFormats(t *testing.T) {
	for _, accepted := range []ports.AcceptedFormats{avifAccepted, webpAccepted} {
		for _, f := range allFormats {
			got, ok := Select(accepted, f)
			if !ok {
				t.Fatalf("Select(%s) returned none with non-empty lists", f)
			}
			if IsAlpha(f) {
				if got != accepted.Alpha[0] {
					t.Errorf("Select(%s) = %s, want alpha target %s", f, got, accepted.Alpha[0])
				}
			} else if got != accepted.Opaque[0] {
				t.Errorf("Select(%s) = %s, want opaque target %s", f, got, accepted.Opaque[0])
			}
		}
	}
}

func TestSelect_EmptyLists(t *testing.T) {
	noAlpha := ports.AcceptedFormats{Opaque: []ports.PixelFormat{ports.PixelFormatYUV420P}}
	if _, ok := Select(noAlpha, ports.PixelFormatRGBA); ok {
		t.Error("expected no target for alpha source without alpha list")
	}
	if got, ok := Select(noAlpha, ports.PixelFormatNV12); !ok || got != ports.PixelFormatYUV420P {
		t.Errorf("Select(nv12) = %s, %v; want yuv420p, true", got, ok)
	}

	noOpaque := ports.AcceptedFormats{Alpha: []ports.PixelFormat{ports.PixelFormatYUVA420P}}
	if _, ok := Select(noOpaque, ports.PixelFormatNV12); ok {
		t.Error("expected no target for opaque source without opaque list")
	}
}
