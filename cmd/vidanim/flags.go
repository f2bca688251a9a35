package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidanim/pkg/config"
	"github.com/user/vidanim/pkg/tasks/avif"
)

const (
	categoryLogging = "Logging"
	categoryDebug   = "Debug"
	categoryEncoder = "Encoder"
	categoryAnim    = "Animation"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   l10n.T("YAML configuration file"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T(categoryLogging),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T(categoryLogging),
		},
		&cli.BoolFlag{
			Name:     "no-progress",
			Usage:    l10n.T("Hide the progress bar"),
			Category: l10n.T(categoryLogging),
		},
		&cli.StringFlag{
			Name:  "summary",
			Usage: l10n.T("Output execution summary to file (Markdown format, - for stdout)"),
		},
		&cli.IntFlag{
			Name:  "channel-capacity",
			Usage: l10n.T("Frames buffered between decoder and encoder"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T(categoryDebug),
		},
		&cli.IntFlag{
			Name:     "debug-frames",
			Usage:    l10n.T("Number of frames saved as debug snapshots"),
			Category: l10n.T(categoryDebug),
		},
	}
}

func avifFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "codec",
			Usage:    l10n.T("AV1 codec (auto, aom, dav1d, libgav1, rav1e, svt)"),
			Category: l10n.T(categoryEncoder),
		},
		&cli.IntFlag{
			Name:     "max-threads",
			Usage:    l10n.T("Maximum encoder threads (0 = number of CPUs)"),
			Category: l10n.T(categoryEncoder),
		},
		&cli.IntFlag{
			Name:     "quantizer",
			Usage:    l10n.T("Color quantizer (0-63, 0 is lossless)"),
			Category: l10n.T(categoryEncoder),
		},
		&cli.IntFlag{
			Name:     "quantizer-alpha",
			Usage:    l10n.T("Alpha quantizer (0-63, 0 is lossless)"),
			Category: l10n.T(categoryEncoder),
		},
		&cli.IntFlag{
			Name:     "speed",
			Usage:    l10n.T("Encoder speed (0-10, 10 is fastest)"),
			Category: l10n.T(categoryEncoder),
		},
	}
}

func applyAVIFFlags(c *cli.Context, o *avif.Options) {
	if c.IsSet("codec") {
		o.Codec = c.String("codec")
	}
	if c.IsSet("max-threads") {
		o.MaxThreads = c.Int("max-threads")
	}
	if c.IsSet("quantizer") {
		o.Quantizer = c.Int("quantizer")
	}
	if c.IsSet("quantizer-alpha") {
		o.QuantizerAlpha = c.Int("quantizer-alpha")
	}
	if c.IsSet("speed") {
		o.Speed = c.Int("speed")
	}
}

// webpOption binds a string flag to a textual WebP config field. Values are
// parsed by config.WebPConfig.Options.
type webpOption struct {
	name     string
	usage    string
	category string
	field    func(*config.WebPConfig) *string
}

var webpOptions = []webpOption{
	{"preset", "Preset (default, picture, photo, drawing, icon, text)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Preset }},
	{"lossless", "Lossless encoding (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Lossless }},
	{"quality", "Quality (0-100)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Quality }},
	{"method", "Quality/speed trade-off (0-6, 6 is slowest)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Method }},
	{"image-hint", "Image hint (default, picture, photo, graph)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.ImageHint }},
	{"target-size", "Target size in bytes", categoryEncoder, func(w *config.WebPConfig) *string { return &w.TargetSize }},
	{"target-psnr", "Target PSNR in dB", categoryEncoder, func(w *config.WebPConfig) *string { return &w.TargetPSNR }},
	{"segments", "Number of segments (1-4)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Segments }},
	{"sns-strength", "Spatial noise shaping strength (0-100)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.SNSStrength }},
	{"filter-strength", "Filter strength (0-100)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.FilterStrength }},
	{"filter-sharpness", "Filter sharpness (0-7)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.FilterSharpness }},
	{"strong-filter", "Use the strong filter (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.StrongFilter }},
	{"autofilter", "Auto-adjust filter strength (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Autofilter }},
	{"alpha-compression", "Compress the alpha plane (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.AlphaCompression }},
	{"alpha-filtering", "Alpha filtering (none, fast, best)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.AlphaFiltering }},
	{"alpha-quality", "Alpha quality (0-100)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.AlphaQuality }},
	{"pass", "Entropy analysis passes (1-10)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Pass }},
	{"show-compressed", "Export the compressed picture (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.ShowCompressed }},
	{"preprocessing", "Preprocessing (none, segment-smooth, pseudo-random-dithering)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Preprocessing }},
	{"partitions", "log2 of token partitions (0-3)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Partitions }},
	{"partition-limit", "Quality degradation allowed to fit partitions (0-100)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.PartitionLimit }},
	{"emulate-jpeg-size", "Match the size of a JPEG of the same quality (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.EmulateJPEGSize }},
	{"thread-level", "Use multi-threading (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.ThreadLevel }},
	{"low-memory", "Reduce memory usage (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.LowMemory }},
	{"near-lossless", "Near-lossless preprocessing (0-100, 100 is off)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.NearLossless }},
	{"exact", "Keep RGB under transparent areas (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.Exact }},
	{"use-delta-palette", "Use the delta palette (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.UseDeltaPalette }},
	{"use-sharp-yuv", "Use sharp RGB to YUV conversion (true, false)", categoryEncoder, func(w *config.WebPConfig) *string { return &w.UseSharpYUV }},

	{"minimize-size", "Minimize output size, slow (true, false)", categoryAnim, func(w *config.WebPConfig) *string { return &w.MinimizeSize }},
	{"keyframe-distance", "Key frame distance (disabled, all-frames, min..max)", categoryAnim, func(w *config.WebPConfig) *string { return &w.KeyframeDistance }},
	{"allow-mixed", "Mix lossy and lossless frames (true, false)", categoryAnim, func(w *config.WebPConfig) *string { return &w.AllowMixed }},
	{"background-color", "Background color (#RRGGBB or #AARRGGBB)", categoryAnim, func(w *config.WebPConfig) *string { return &w.BackgroundColor }},
	{"loop-count", "Loop count (0 = infinite)", categoryAnim, func(w *config.WebPConfig) *string { return &w.LoopCount }},
}

func webpFlags() []cli.Flag {
	flags := make([]cli.Flag, len(webpOptions))
	for i, o := range webpOptions {
		flags[i] = &cli.StringFlag{
			Name:     o.name,
			Usage:    l10n.T(o.usage),
			Category: l10n.T(o.category),
		}
	}
	return flags
}

func applyWebPFlags(c *cli.Context, w *config.WebPConfig) {
	for _, o := range webpOptions {
		if c.IsSet(o.name) {
			*o.field(w) = c.String(o.name)
		}
	}
}
