// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/user/vidanim/pkg/framechan"
	"github.com/user/vidanim/pkg/ports"
	"github.com/user/vidanim/pkg/tasks/avif"
	"github.com/user/vidanim/pkg/tasks/webp"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VIDANIM_"

// ErrInvalid is returned for configuration values that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Config represents the full configuration for vidanim.
type Config struct {
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`
	Progress        bool   `yaml:"progress" env:"PROGRESS"`
	ChannelCapacity int    `yaml:"channel_capacity" env:"CHANNEL_CAPACITY"`

	// DecoderOverrides maps codec names to preferred decoder names on top of
	// the built-in table. An empty decoder name removes a built-in override.
	DecoderOverrides map[string]string `yaml:"decoder_overrides" env:"DECODER_OVERRIDES"`

	AVIF  avif.Options `yaml:"avif" envPrefix:"AVIF_"`
	WebP  WebPConfig   `yaml:"webp" envPrefix:"WEBP_"`
	Debug DebugConfig  `yaml:"debug" envPrefix:"DEBUG_"`
}

// DebugConfig controls the debug output directory.
type DebugConfig struct {
	// Dir enables debug output when non-empty.
	Dir        string `yaml:"dir" env:"DIR"`
	Frames     int    `yaml:"frames" env:"FRAMES"`
	MaxWidth   int    `yaml:"max_width" env:"MAX_WIDTH"`
	LabelColor string `yaml:"label_color" env:"LABEL_COLOR"`
}

// WebPConfig holds the WebP options as text, the way they are written on
// the command line. Empty values keep libwebp's defaults.
type WebPConfig struct {
	Preset           string `yaml:"preset" env:"PRESET"`
	Lossless         string `yaml:"lossless" env:"LOSSLESS"`
	Quality          string `yaml:"quality" env:"QUALITY"`
	Method           string `yaml:"method" env:"METHOD"`
	ImageHint        string `yaml:"image_hint" env:"IMAGE_HINT"`
	TargetSize       string `yaml:"target_size" env:"TARGET_SIZE"`
	TargetPSNR       string `yaml:"target_psnr" env:"TARGET_PSNR"`
	Segments         string `yaml:"segments" env:"SEGMENTS"`
	SNSStrength      string `yaml:"sns_strength" env:"SNS_STRENGTH"`
	FilterStrength   string `yaml:"filter_strength" env:"FILTER_STRENGTH"`
	FilterSharpness  string `yaml:"filter_sharpness" env:"FILTER_SHARPNESS"`
	StrongFilter     string `yaml:"strong_filter" env:"STRONG_FILTER"`
	Autofilter       string `yaml:"autofilter" env:"AUTOFILTER"`
	AlphaCompression string `yaml:"alpha_compression" env:"ALPHA_COMPRESSION"`
	AlphaFiltering   string `yaml:"alpha_filtering" env:"ALPHA_FILTERING"`
	AlphaQuality     string `yaml:"alpha_quality" env:"ALPHA_QUALITY"`
	Pass             string `yaml:"pass" env:"PASS"`
	ShowCompressed   string `yaml:"show_compressed" env:"SHOW_COMPRESSED"`
	Preprocessing    string `yaml:"preprocessing" env:"PREPROCESSING"`
	Partitions       string `yaml:"partitions" env:"PARTITIONS"`
	PartitionLimit   string `yaml:"partition_limit" env:"PARTITION_LIMIT"`
	EmulateJPEGSize  string `yaml:"emulate_jpeg_size" env:"EMULATE_JPEG_SIZE"`
	ThreadLevel      string `yaml:"thread_level" env:"THREAD_LEVEL"`
	LowMemory        string `yaml:"low_memory" env:"LOW_MEMORY"`
	NearLossless     string `yaml:"near_lossless" env:"NEAR_LOSSLESS"`
	Exact            string `yaml:"exact" env:"EXACT"`
	UseDeltaPalette  string `yaml:"use_delta_palette" env:"USE_DELTA_PALETTE"`
	UseSharpYUV      string `yaml:"use_sharp_yuv" env:"USE_SHARP_YUV"`

	MinimizeSize     string `yaml:"minimize_size" env:"MINIMIZE_SIZE"`
	KeyframeDistance string `yaml:"keyframe_distance" env:"KEYFRAME_DISTANCE"`
	AllowMixed       string `yaml:"allow_mixed" env:"ALLOW_MIXED"`
	BackgroundColor  string `yaml:"background_color" env:"BACKGROUND_COLOR"`
	LoopCount        string `yaml:"loop_count" env:"LOOP_COUNT"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogLevel:        "info",
		Progress:        true,
		ChannelCapacity: framechan.DefaultCapacity,
		AVIF:            avif.DefaultOptions(),
		Debug: DebugConfig{
			Frames:     10,
			MaxWidth:   320,
			LabelColor: "#ffffff",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when empty) and VIDANIM_* variables of environ. A nil environ
// reads the process environment.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are not validated by the encoder tasks.
func (c Config) Validate() error {
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.ChannelCapacity < 1 {
		return fmt.Errorf("%w: channel_capacity must be at least 1, got %d", ErrInvalid, c.ChannelCapacity)
	}
	if c.Debug.Frames < 0 {
		return fmt.Errorf("%w: debug.frames must not be negative, got %d", ErrInvalid, c.Debug.Frames)
	}
	if _, err := ParseColor(c.Debug.LabelColor); err != nil {
		return err
	}
	if _, err := c.WebP.Options(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level, LevelInfo when invalid.
func (c Config) Level() ports.LogLevel {
	level, _ := ports.ParseLogLevel(c.LogLevel)
	return level
}

// Options parses the textual WebP options.
func (w WebPConfig) Options() (webp.Options, error) {
	var (
		p    valueParser
		opts webp.Options
		err  error
	)

	if opts.Config.Preset, err = webp.ParsePreset(w.Preset); err != nil {
		return opts, err
	}
	if w.ImageHint != "" {
		hint, err := webp.ParseImageHint(w.ImageHint)
		if err != nil {
			return opts, err
		}
		opts.Config.ImageHint = &hint
	}
	if w.AlphaFiltering != "" {
		af, err := webp.ParseAlphaFiltering(w.AlphaFiltering)
		if err != nil {
			return opts, err
		}
		opts.Config.AlphaFiltering = &af
	}
	if w.Preprocessing != "" {
		pp, err := webp.ParsePreprocessing(w.Preprocessing)
		if err != nil {
			return opts, err
		}
		opts.Config.Preprocessing = &pp
	}
	if w.KeyframeDistance != "" {
		kd, err := webp.ParseKeyframeDistance(w.KeyframeDistance)
		if err != nil {
			return opts, err
		}
		opts.Anim.KeyframeDistance = &kd
	}
	if w.BackgroundColor != "" {
		bg, err := webp.ParseBackgroundColor(w.BackgroundColor)
		if err != nil {
			return opts, err
		}
		opts.Anim.BackgroundColor = &bg
	}

	c := &opts.Config
	c.Lossless = p.boolean("lossless", w.Lossless)
	c.Quality = p.float("quality", w.Quality)
	c.Method = p.integer("method", w.Method)
	c.TargetSize = p.integer("target_size", w.TargetSize)
	c.TargetPSNR = p.float("target_psnr", w.TargetPSNR)
	c.Segments = p.integer("segments", w.Segments)
	c.SNSStrength = p.integer("sns_strength", w.SNSStrength)
	c.FilterStrength = p.integer("filter_strength", w.FilterStrength)
	c.FilterSharpness = p.integer("filter_sharpness", w.FilterSharpness)
	c.StrongFilter = p.boolean("strong_filter", w.StrongFilter)
	c.Autofilter = p.boolean("autofilter", w.Autofilter)
	c.AlphaCompression = p.boolean("alpha_compression", w.AlphaCompression)
	c.AlphaQuality = p.integer("alpha_quality", w.AlphaQuality)
	c.Pass = p.integer("pass", w.Pass)
	c.ShowCompressed = p.boolean("show_compressed", w.ShowCompressed)
	c.Partitions = p.integer("partitions", w.Partitions)
	c.PartitionLimit = p.integer("partition_limit", w.PartitionLimit)
	c.EmulateJPEGSize = p.boolean("emulate_jpeg_size", w.EmulateJPEGSize)
	c.ThreadLevel = p.boolean("thread_level", w.ThreadLevel)
	c.LowMemory = p.boolean("low_memory", w.LowMemory)
	c.NearLossless = p.integer("near_lossless", w.NearLossless)
	c.Exact = p.boolean("exact", w.Exact)
	c.UseDeltaPalette = p.boolean("use_delta_palette", w.UseDeltaPalette)
	c.UseSharpYUV = p.boolean("use_sharp_yuv", w.UseSharpYUV)

	a := &opts.Anim
	a.MinimizeSize = p.boolean("minimize_size", w.MinimizeSize)
	a.AllowMixed = p.boolean("allow_mixed", w.AllowMixed)
	a.LoopCount = p.integer("loop_count", w.LoopCount)

	if p.err != nil {
		return opts, p.err
	}
	return opts, nil
}

// valueParser parses optional scalars and keeps the first error.
type valueParser struct {
	err error
}

func (p *valueParser) fail(name, s string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: webp.%s %q: %v", ErrInvalid, name, s, err)
	}
}

func (p *valueParser) boolean(name, s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		p.fail(name, s, err)
		return nil
	}
	return &v
}

func (p *valueParser) integer(name, s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.fail(name, s, err)
		return nil
	}
	return &v
}

func (p *valueParser) float(name, s string) *float32 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		p.fail(name, s, err)
		return nil
	}
	f := float32(v)
	return &f
}

// ParseColor parses a #RRGGBB hex color.
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("%w: color %q: expected #rrggbb", ErrInvalid, hex)
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(s[2*i])
		lo, ok2 := hexValue(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: color %q: expected #rrggbb", ErrInvalid, hex)
		}
		rgb[i] = hi<<4 | lo
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
