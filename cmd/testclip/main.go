// Package main writes synthetic AV1 MP4 clips for trying out vidanim.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/user/vidanim/pkg/adapters/av1encoder"
	"github.com/user/vidanim/pkg/adapters/ggrenderer"
	"github.com/user/vidanim/pkg/adapters/osfilesystem"
	"github.com/user/vidanim/pkg/ports"
)

func main() {
	app := &cli.App{
		Name:      "testclip",
		Usage:     "Write a synthetic AV1 MP4 clip",
		ArgsUsage: "<output.mp4>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 320},
			&cli.IntFlag{Name: "height", Value: 180},
			&cli.IntFlag{Name: "frames", Value: 30},
			&cli.Int64Flag{Name: "fps", Value: 30},
			&cli.IntFlag{Name: "quantizer", Value: av1encoder.DefaultOptions().Quantizer},
			&cli.BoolFlag{Name: "no-label", Usage: "Do not stamp frame numbers"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one output path")
	}
	output := c.Args().First()

	spec := av1encoder.ClipSpec{
		Width:     c.Int("width"),
		Height:    c.Int("height"),
		Frames:    c.Int("frames"),
		FrameRate: ports.Rational{Num: c.Int64("fps"), Den: 1},
	}
	if !c.Bool("no-label") {
		spec.Renderer = ggrenderer.New()
	}
	opts := av1encoder.DefaultOptions()
	opts.Quantizer = c.Int("quantizer")

	data, err := av1encoder.Clip(spec, opts)
	if err != nil {
		return err
	}
	if err := osfilesystem.New().WriteFile(output, data); err != nil {
		return err
	}
	fmt.Printf("Generated %s (%dx%d, %d frames, %d bytes)\n", output, spec.Width, spec.Height, spec.Frames, len(data))
	return nil
}
