// Package orchestrator runs one transcode: it opens the input, configures
// the encoder task, and drives the decoder and encoder workers over a
// bounded frame channel.
package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"

	"github.com/user/vidanim/pkg/formats"
	"github.com/user/vidanim/pkg/framechan"
	"github.com/user/vidanim/pkg/pipeline"
	"github.com/user/vidanim/pkg/ports"
)

var (
	// ErrOpenInput is returned when the input container cannot be opened.
	ErrOpenInput = errors.New("orchestrator: cannot open input")
	// ErrNoFrames is returned when the stream reports no frames.
	ErrNoFrames = errors.New("orchestrator: stream has no frames")
	// ErrConfiguration is returned when the encoder task rejects the stream.
	ErrConfiguration = errors.New("orchestrator: encoder configuration failed")
	// ErrOutputFile is returned when the output file cannot be created.
	ErrOutputFile = errors.New("orchestrator: cannot create output file")
	// ErrWorkerPanicked stands in for the error of a worker that panicked.
	ErrWorkerPanicked = errors.New("orchestrator: worker panicked")
)

// Worker names used in progress descriptions and the report.
const (
	WorkerDecoder = "Decoder"
	WorkerEncoder = "Encoder"
)

// Config contains the tunables of a run.
type Config struct {
	// ChannelCapacity is the frame channel size for multi-frame streams.
	ChannelCapacity int

	// DebugFrames is the number of encoder-side frames saved to the debug
	// sink. DebugMaxWidth bounds their width, 0 keeps the frame size.
	DebugFrames   int
	DebugMaxWidth int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ChannelCapacity: framechan.DefaultCapacity,
		DebugFrames:     10,
		DebugMaxWidth:   320,
	}
}

// ProgressFactory creates the progress reporter of one worker.
type ProgressFactory func(worker string, total int64) ports.Progress

// Request describes one transcode.
type Request struct {
	Input string
	// OutputBase is the output path without extension.
	OutputBase string
	Task       ports.EncoderTask
}

// Orchestrator wires a media source to an encoder task.
type Orchestrator struct {
	opener   ports.MediaOpener
	counter  ports.FrameCounter
	fs       ports.FileSystem
	sink     ports.DebugSink
	renderer ports.Renderer
	progress ProgressFactory
	logger   ports.Logger
	config   Config

	// initNative runs once before the workers start.
	initNative func()
}

// New creates a new Orchestrator. counter may be nil.
func New(
	opener ports.MediaOpener,
	counter ports.FrameCounter,
	fs ports.FileSystem,
	sink ports.DebugSink,
	renderer ports.Renderer,
	progress ProgressFactory,
	logger ports.Logger,
	config Config,
) *Orchestrator {
	return &Orchestrator{
		opener:     opener,
		counter:    counter,
		fs:         fs,
		sink:       sink,
		renderer:   renderer,
		progress:   progress,
		logger:     logger,
		config:     config,
		initNative: func() {},
	}
}

// WithNativeInit sets a hook run before the workers start.
func (o *Orchestrator) WithNativeInit(init func()) *Orchestrator {
	o.initNative = init
	return o
}

// Run performs the transcode. Setup failures are returned before any worker
// starts, with an empty Result. Once the workers ran, the Result is always
// filled in and a failed run returns a *RunError.
func (o *Orchestrator) Run(req Request) (Result, error) {
	src, err := o.opener.Open(req.Input)
	if err != nil {
		o.logger.Error(l10n.F("Failed to open %s: %v", req.Input, err))
		return Result{}, fmt.Errorf("%w: %s: %v", ErrOpenInput, req.Input, err)
	}
	defer src.Close()

	stream := src.Stream()
	o.logger.Info(l10n.F("Input %s: %s %dx%d %s, time base %s", req.Input,
		stream.Codec, stream.Width, stream.Height, stream.PixelFormat, stream.TimeBase))

	frames := pipeline.CountFrames(stream, req.Input, o.counter, o.logger)
	if frames <= 0 {
		o.logger.Error(l10n.F("Stream %d of %s has no frames", stream.Index, req.Input))
		return Result{}, fmt.Errorf("%w: %s", ErrNoFrames, req.Input)
	}

	job, err := req.Task.Configure(stream)
	if err != nil {
		o.logger.Error(l10n.F("Failed to configure %s encoder: %v", req.Task.Name(), err))
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	outputPath := req.Task.OutputPath(req.OutputBase)
	out, err := o.fs.Create(outputPath)
	if err != nil {
		o.logger.Error(l10n.F("Failed to create %s: %v", outputPath, err))
		return Result{}, fmt.Errorf("%w: %s: %v", ErrOutputFile, outputPath, err)
	}

	capacity := framechan.Capacity(frames, o.config.ChannelCapacity)
	still := frames == 1
	mode := Result{Still: still}.Mode()
	o.logger.Info(l10n.F("Encoding %d frames as %s %s, channel capacity %d", frames, req.Task.Name(), mode, capacity))

	if o.sink.Enabled() {
		o.saveStreamJSON(req, stream, frames, capacity, mode, outputPath)
	}

	tx, rx := framechan.New(capacity)
	var frameRx ports.FrameReceiver = rx
	if o.sink.Enabled() && o.config.DebugFrames > 0 {
		frameRx = newDebugTap(rx, o.sink, o.renderer, o.config.DebugFrames, o.config.DebugMaxWidth, o.logger)
	}

	o.initNative()

	accepted := req.Task.AcceptedFormats()
	decLogger := o.logger.WithComponent(WorkerDecoder)
	decProgress := o.progress(WorkerDecoder, frames)
	decoder := pipeline.Start[struct{}](pipeline.WorkerFunc[struct{}](func() (struct{}, error) {
		return struct{}{}, pipeline.Emit(src, accepted, tx, decProgress, decLogger)
	}))

	encProgress := o.progress(WorkerEncoder, frames)
	encoder := pipeline.Start[ports.Stats](pipeline.WorkerFunc[ports.Stats](func() (ports.Stats, error) {
		defer rx.Close()
		if still {
			return job.RunStill(out, frameRx, encProgress)
		}
		return job.RunAnimation(out, frameRx, encProgress)
	}))

	decOutcome := <-decoder
	encOutcome := <-encoder

	result := Result{
		Decoder:    outcome(decOutcome),
		Encoder:    outcome(encOutcome),
		Stats:      encOutcome.Value,
		OutputPath: outputPath,
		Stream:     stream,
		Frames:     frames,
		Still:      still,
	}
	if err := out.Close(); err != nil && !result.Failed() {
		result.Encoder.Err = fmt.Errorf("%w: close %s: %v", ErrOutputFile, outputPath, err)
	}
	if err := result.Err(); err != nil {
		o.logger.Error(l10n.F("Transcode of %s failed: %v", req.Input, err))
		return result, err
	}

	o.logger.Info(l10n.F("Wrote %s", outputPath))
	return result, nil
}

func outcome[Out any](o pipeline.Outcome[Out]) WorkerOutcome {
	return WorkerOutcome{Err: o.Err, Panicked: o.Panicked, Panic: o.Panic}
}

// streamSummary is the debug description of a run.
type streamSummary struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	Task         string `json:"task"`
	Mode         string `json:"mode"`
	Codec        string `json:"codec"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixelFormat  string `json:"pixel_format"`
	EncoderInput string `json:"encoder_pixel_format"`
	TimeBase     string `json:"time_base"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Frames       int64  `json:"frames"`
	DurationMs   int64  `json:"duration_ms"`
	Capacity     int    `json:"channel_capacity"`
}

func (o *Orchestrator) saveStreamJSON(req Request, stream ports.StreamInfo, frames int64, capacity int, mode, outputPath string) {
	accepted := req.Task.AcceptedFormats()
	encoderInput := "none"
	if formats.Passes(accepted, stream.PixelFormat) {
		encoderInput = stream.PixelFormat.String()
	} else if target, ok := formats.Select(accepted, stream.PixelFormat); ok {
		encoderInput = target.String()
	}

	data, err := json.MarshalIndent(streamSummary{
		Input:        req.Input,
		Output:       outputPath,
		Task:         req.Task.Name(),
		Mode:         mode,
		Codec:        stream.Codec,
		Width:        stream.Width,
		Height:       stream.Height,
		PixelFormat:  stream.PixelFormat.String(),
		EncoderInput: encoderInput,
		TimeBase:     stream.TimeBase.String(),
		AvgFrameRate: stream.AvgFrameRate.String(),
		Frames:       frames,
		DurationMs:   pipeline.DurationMs(stream),
		Capacity:     capacity,
	}, "", "  ")
	if err == nil {
		err = o.sink.SaveStreamJSON(data)
	}
	if err != nil {
		o.logger.Warn(l10n.F("Failed to save debug stream info: %v", err))
	}
}

// Report writes the outcome of a run in the CLI's format.
func (r Result) Report(w io.Writer) error {
	if !r.Failed() {
		stats := "no stats"
		if r.Stats != nil {
			stats = r.Stats.String()
		}
		_, err := fmt.Fprintf(w, "Finished: %s\nWritten to %s\n", stats, r.OutputPath)
		return err
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n[%s] %s\nSome worker panicked or returned an error!\n",
		WorkerDecoder, r.Decoder, WorkerEncoder, r.Encoder)
	return err
}
