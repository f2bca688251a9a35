// Package main provides the CLI entry point for vidanim.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidanim/pkg/adapters/ffsource"
	"github.com/user/vidanim/pkg/adapters/filesink"
	"github.com/user/vidanim/pkg/adapters/ggrenderer"
	"github.com/user/vidanim/pkg/adapters/libavif"
	"github.com/user/vidanim/pkg/adapters/libwebp"
	"github.com/user/vidanim/pkg/adapters/logger"
	"github.com/user/vidanim/pkg/adapters/mp4count"
	"github.com/user/vidanim/pkg/adapters/nullsink"
	"github.com/user/vidanim/pkg/adapters/osfilesystem"
	"github.com/user/vidanim/pkg/adapters/progress"
	"github.com/user/vidanim/pkg/config"
	"github.com/user/vidanim/pkg/orchestrator"
	"github.com/user/vidanim/pkg/pipeline"
	"github.com/user/vidanim/pkg/ports"
	"github.com/user/vidanim/pkg/summarizer"
	"github.com/user/vidanim/pkg/tasks/avif"
	"github.com/user/vidanim/pkg/tasks/webp"
)

var version = "dev"

const defaultOutputBase = "out"

var errUsage = errors.New("usage")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "vidanim",
		Usage:   l10n.T("Convert a video into an animated AVIF or WebP image"),
		Version: version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "avif",
				Usage:     l10n.T("Encode the video as AVIF"),
				ArgsUsage: "<input> [output]",
				Flags:     avifFlags(),
				Action:    runAVIF,
			},
			{
				Name:      "webp",
				Usage:     l10n.T("Encode the video as WebP"),
				ArgsUsage: "<input> [output]",
				Flags:     webpFlags(),
				Action:    runWebP,
			},
		},
	}
}

func runAVIF(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyAVIFFlags(c, &cfg.AVIF)

	log := newLogger(c, cfg)
	task, err := avif.New(libavif.New(), cfg.AVIF, log)
	if err != nil {
		return err
	}
	o := task.Options()
	settings := []summarizer.Setting{
		{Name: "codec", Value: o.Codec},
		{Name: "max_threads", Value: strconv.Itoa(o.MaxThreads)},
		{Name: "quantizer", Value: strconv.Itoa(o.Quantizer)},
		{Name: "quantizer_alpha", Value: strconv.Itoa(o.QuantizerAlpha)},
		{Name: "speed", Value: strconv.Itoa(o.Speed)},
	}
	return transcode(c, cfg, task, settings, log)
}

func runWebP(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyWebPFlags(c, &cfg.WebP)

	opts, err := cfg.WebP.Options()
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)
	var settings []summarizer.Setting
	for _, o := range webpOptions {
		if v := *o.field(&cfg.WebP); v != "" {
			settings = append(settings, summarizer.Setting{Name: o.name, Value: v})
		}
	}
	return transcode(c, cfg, webp.New(libwebp.New(), opts, log), settings, log)
}

// loadConfig reads the config file and environment, then applies the
// global flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"), nil)
	if err != nil {
		return cfg, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("no-progress") {
		cfg.Progress = false
	}
	if c.IsSet("channel-capacity") {
		cfg.ChannelCapacity = c.Int("channel-capacity")
	}
	if c.IsSet("debug-dir") {
		cfg.Debug.Dir = c.String("debug-dir")
	}
	if c.IsSet("debug-frames") {
		cfg.Debug.Frames = c.Int("debug-frames")
	}
	return cfg, cfg.Validate()
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(cfg.Level())
}

func transcode(c *cli.Context, cfg config.Config, task ports.EncoderTask, settings []summarizer.Setting, log ports.Logger) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return fmt.Errorf("%w: %s", errUsage, l10n.T("expected <input> [output]"))
	}
	input := c.Args().Get(0)
	outputBase := c.Args().Get(1)
	if outputBase == "" {
		outputBase = defaultOutputBase
	}

	labelColor, err := config.ParseColor(cfg.Debug.LabelColor)
	if err != nil {
		return err
	}
	fs := osfilesystem.New()
	renderer := ggrenderer.New().WithLabelColor(labelColor)

	var sink ports.DebugSink
	if cfg.Debug.Dir != "" {
		if err := fs.MkdirAll(cfg.Debug.Dir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.Debug.Dir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	newProgress := func(worker string, total int64) ports.Progress {
		if worker != orchestrator.WorkerEncoder {
			return progress.Noop{}
		}
		return progress.ForTerminal(cfg.Progress && !c.Bool("quiet"), l10n.T("Encoding"), total)
	}

	orch := orchestrator.New(
		ffsource.New(ffsource.DefaultDecoderOverrides().Merge(cfg.DecoderOverrides), log),
		mp4count.New(),
		fs,
		sink,
		renderer,
		newProgress,
		log,
		orchestrator.Config{
			ChannelCapacity: cfg.ChannelCapacity,
			DebugFrames:     cfg.Debug.Frames,
			DebugMaxWidth:   cfg.Debug.MaxWidth,
		},
	).WithNativeInit(ffsource.Init)

	log.Info(l10n.F("Transcoding %s to %s", input, task.OutputPath(outputBase)))

	result, err := orch.Run(orchestrator.Request{Input: input, OutputBase: outputBase, Task: task})
	var runErr *orchestrator.RunError
	if path := c.String("summary"); path != "" && (err == nil || errors.As(err, &runErr)) {
		if serr := writeSummary(fs, path, input, task.Name(), settings, result); serr != nil {
			log.Warn(l10n.F("Failed to write summary: %s", serr))
		} else if path != summarizer.StdoutPath {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}
	switch {
	case err == nil:
		return result.Report(os.Stdout)
	case errors.As(err, &runErr):
		if rerr := result.Report(os.Stderr); rerr != nil {
			return rerr
		}
		return cli.Exit("", 1)
	default:
		return err
	}
}

func writeSummary(fs ports.FileSystem, path, input, format string, settings []summarizer.Setting, result orchestrator.Result) error {
	b := summarizer.NewBuilder()
	stream := result.Stream
	b.WithInput(summarizer.InputInfo{
		Path:        input,
		Codec:       stream.Codec,
		Width:       stream.Width,
		Height:      stream.Height,
		PixelFormat: stream.PixelFormat.String(),
		TimeBase:    stream.TimeBase.String(),
		FrameRate:   stream.AvgFrameRate.String(),
		Frames:      result.Frames,
		DurationMs:  pipeline.DurationMs(stream),
	})
	for _, s := range settings {
		b.WithSetting(s.Name, s.Value)
	}

	out := summarizer.OutputInfo{
		Path:      result.OutputPath,
		Format:    format,
		Mode:      result.Mode(),
		Succeeded: !result.Failed(),
	}
	if result.Stats != nil {
		out.Stats = result.Stats.String()
	}
	if size, err := fs.Size(result.OutputPath); err == nil {
		out.FileSize = size
	}
	b.WithOutput(out).WithWorkers(result.Decoder.String(), result.Encoder.String())

	formatter := summarizer.NewMarkdownFormatter(summarizer.WithTranslator(l10n.T), summarizer.WithVersion(version))
	return summarizer.NewWriter(formatter, fs).Write(path, b.Build())
}
