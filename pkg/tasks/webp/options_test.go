package webp

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/vidanim/pkg/ports"
)

func TestParseKeyframeDistance(t *testing.T) {
	tests := []struct {
		in      string
		want    ports.KeyframeDistance
		wantErr bool
	}{
		{"disabled", ports.KeyframeDistance{Min: -1, Max: 0}, false},
		{"all-frames", ports.KeyframeDistance{Min: 0, Max: 1}, false},
		{"allframes", ports.KeyframeDistance{Min: 0, Max: 1}, false},
		{"allFrames", ports.KeyframeDistance{Min: 0, Max: 1}, false},
		{"all_frames", ports.KeyframeDistance{Min: 0, Max: 1}, false},
		{"3..5", ports.KeyframeDistance{Min: 3, Max: 5}, false},
		{"3,5", ports.KeyframeDistance{Min: 3, Max: 5}, false},
		{"10 .. 20", ports.KeyframeDistance{Min: 10, Max: 20}, false},
		{"", ports.KeyframeDistance{}, true},
		{"3..", ports.KeyframeDistance{}, true},
		{"a,b", ports.KeyframeDistance{}, true},
		{"Disabled", ports.KeyframeDistance{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyframeDistance(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOption) {
					t.Fatalf("ParseKeyframeDistance(%q) error = %v, want ErrInvalidOption", tt.in, err)
				}
				if !strings.Contains(err.Error(), "'disabled', 'all-frames', or '3..5'") {
					t.Errorf("error message = %q", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyframeDistance(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKeyframeDistance(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBackgroundColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#ffffff", 0xffffffff, false},
		{"#102030", 0xff102030, false},
		{"#00102030", 0x00102030, false},
		{"#80ABCDEF", 0x80abcdef, false},
		{"ffffff", 0, true},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
		{"#1234567", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackgroundColor(tt.in)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "expected #abcdef, or #abcdef01") {
					t.Fatalf("ParseBackgroundColor(%q) error = %v", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBackgroundColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseBackgroundColor(%q) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePreset("Photo"); err != nil || p != ports.WebPPresetPhoto {
		t.Errorf("ParsePreset(Photo) = %v, %v", p, err)
	}
	if _, err := ParsePreset("vector"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("ParsePreset(vector) error = %v", err)
	}
	if h, err := ParseImageHint("graph"); err != nil || h != ports.WebPHintGraph {
		t.Errorf("ParseImageHint(graph) = %v, %v", h, err)
	}
	if f, err := ParseAlphaFiltering("best"); err != nil || f != ports.WebPAlphaFilterBest {
		t.Errorf("ParseAlphaFiltering(best) = %v, %v", f, err)
	}
	if _, err := ParseAlphaFiltering("slow"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("ParseAlphaFiltering(slow) error = %v", err)
	}

	pre := map[string]ports.WebPPreprocessing{
		"none":                    0,
		"segment-smooth":          1,
		"pseudo-random-dithering": 2,
	}
	for in, want := range pre {
		if got, err := ParsePreprocessing(in); err != nil || got != want {
			t.Errorf("ParsePreprocessing(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestOptions_Normalize(t *testing.T) {
	ip := func(v int) *int { return &v }
	fp := func(v float32) *float32 { return &v }

	opts := Options{Config: ports.WebPConfig{
		Quality:         fp(150),
		Segments:        ip(0),
		SNSStrength:     ip(-3),
		FilterStrength:  ip(101),
		FilterSharpness: ip(9),
		AlphaQuality:    ip(200),
		Pass:            ip(1000),
		Partitions:      ip(5),
		PartitionLimit:  ip(-1),
		NearLossless:    ip(60),
	}}.Normalize()

	c := opts.Config
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"segments", *c.Segments, 1},
		{"sns", *c.SNSStrength, 0},
		{"filter strength", *c.FilterStrength, 100},
		{"filter sharpness", *c.FilterSharpness, 7},
		{"alpha quality", *c.AlphaQuality, 100},
		{"pass", *c.Pass, 100},
		{"partitions", *c.Partitions, 3},
		{"partition limit", *c.PartitionLimit, 0},
		{"near lossless", *c.NearLossless, 60},
	}
	for _, ch := range checks {
		if ch.got != ch.want {
			t.Errorf("%s = %d, want %d", ch.name, ch.got, ch.want)
		}
	}
	if *c.Quality != 100 {
		t.Errorf("quality = %v, want 100", *c.Quality)
	}
	if c.Method != nil || c.TargetSize != nil {
		t.Error("unset fields must stay unset")
	}
}
