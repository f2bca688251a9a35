package webp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrInvalidOption is returned for option values that cannot be parsed.
	ErrInvalidOption = errors.New("webp: invalid option")
)

// Options holds the still encoder configuration and the animation settings.
// Unset fields keep libwebp's defaults.
type Options struct {
	Config ports.WebPConfig
	Anim   ports.WebPAnimOptions
}

// Normalize clamps every set numeric field into the range libwebp accepts.
func (o Options) Normalize() Options {
	c := o.Config
	c.Quality = clampF(c.Quality, 0, 100)
	c.Segments = clampI(c.Segments, 1, 4)
	c.SNSStrength = clampI(c.SNSStrength, 0, 100)
	c.FilterStrength = clampI(c.FilterStrength, 0, 100)
	c.FilterSharpness = clampI(c.FilterSharpness, 0, 7)
	c.AlphaQuality = clampI(c.AlphaQuality, 0, 100)
	c.Pass = clampI(c.Pass, 0, 100)
	c.Partitions = clampI(c.Partitions, 0, 3)
	c.PartitionLimit = clampI(c.PartitionLimit, 0, 100)
	c.NearLossless = clampI(c.NearLossless, 0, 100)
	c.Method = clampI(c.Method, 0, 6)
	o.Config = c
	return o
}

func clampI(v *int, lo, hi int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < lo {
		n = lo
	} else if n > hi {
		n = hi
	}
	return &n
}

func clampF(v *float32, lo, hi float32) *float32 {
	if v == nil {
		return nil
	}
	n := *v
	if n < lo {
		n = lo
	} else if n > hi {
		n = hi
	}
	return &n
}

// ParsePreset parses default, picture, photo, drawing, icon or text.
func ParsePreset(s string) (ports.WebPPreset, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return ports.WebPPresetDefault, nil
	case "picture":
		return ports.WebPPresetPicture, nil
	case "photo":
		return ports.WebPPresetPhoto, nil
	case "drawing":
		return ports.WebPPresetDrawing, nil
	case "icon":
		return ports.WebPPresetIcon, nil
	case "text":
		return ports.WebPPresetText, nil
	}
	return 0, fmt.Errorf("%w: preset %q (expected default, picture, photo, drawing, icon or text)", ErrInvalidOption, s)
}

// ParseImageHint parses default, picture, photo or graph.
func ParseImageHint(s string) (ports.WebPImageHint, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return ports.WebPHintDefault, nil
	case "picture":
		return ports.WebPHintPicture, nil
	case "photo":
		return ports.WebPHintPhoto, nil
	case "graph":
		return ports.WebPHintGraph, nil
	}
	return 0, fmt.Errorf("%w: image hint %q (expected default, picture, photo or graph)", ErrInvalidOption, s)
}

// ParseAlphaFiltering parses none, fast or best.
func ParseAlphaFiltering(s string) (ports.WebPAlphaFiltering, error) {
	switch strings.ToLower(s) {
	case "none":
		return ports.WebPAlphaFilterNone, nil
	case "fast":
		return ports.WebPAlphaFilterFast, nil
	case "best":
		return ports.WebPAlphaFilterBest, nil
	}
	return 0, fmt.Errorf("%w: alpha filtering %q (expected none, fast or best)", ErrInvalidOption, s)
}

// ParsePreprocessing parses none, segment-smooth or pseudo-random-dithering.
func ParsePreprocessing(s string) (ports.WebPPreprocessing, error) {
	switch strings.ToLower(s) {
	case "none":
		return ports.WebPPreprocessNone, nil
	case "segment-smooth":
		return ports.WebPPreprocessSegmentSmooth, nil
	case "pseudo-random-dithering":
		return ports.WebPPreprocessPseudoRandomDithering, nil
	}
	return 0, fmt.Errorf("%w: preprocessing %q (expected none, segment-smooth or pseudo-random-dithering)", ErrInvalidOption, s)
}

// ParseKeyframeDistance parses "disabled", one of the all-frames spellings,
// or a "min..max" / "min,max" range.
func ParseKeyframeDistance(s string) (ports.KeyframeDistance, error) {
	switch s {
	case "disabled":
		return ports.KeyframeDistance{Min: -1, Max: 0}, nil
	case "allframes", "all-frames", "allFrames", "all_frames":
		return ports.KeyframeDistance{Min: 0, Max: 1}, nil
	}

	var lo, hi string
	var found bool
	if lo, hi, found = strings.Cut(s, ".."); !found {
		lo, hi, found = strings.Cut(s, ",")
	}
	if found {
		kmin, err1 := strconv.Atoi(strings.TrimSpace(lo))
		kmax, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 == nil && err2 == nil {
			return ports.KeyframeDistance{Min: kmin, Max: kmax}, nil
		}
	}
	return ports.KeyframeDistance{}, fmt.Errorf("%w: keyframe distance %q: try 'disabled', 'all-frames', or '3..5'", ErrInvalidOption, s)
}

// ParseBackgroundColor parses #RRGGBB (opaque) or #AARRGGBB into a packed
// 0xAARRGGBB value.
func ParseBackgroundColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if ok && (len(hex) == 6 || len(hex) == 8) {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			if len(hex) == 6 {
				v |= 0xff000000
			}
			return uint32(v), nil
		}
	}
	return 0, fmt.Errorf("%w: background color %q: expected #abcdef, or #abcdef01", ErrInvalidOption, s)
}
