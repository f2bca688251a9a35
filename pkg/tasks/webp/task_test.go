package webp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/vidanim/pkg/adapters/logger"
	"github.com/user/vidanim/pkg/framechan"
	"github.com/user/vidanim/pkg/mocks"
	"github.com/user/vidanim/pkg/pipeline"
	"github.com/user/vidanim/pkg/ports"
)

var tb30 = ports.Rational{Num: 1, Den: 30}

func stream() ports.StreamInfo {
	return ports.StreamInfo{
		Width:        4,
		Height:       2,
		TimeBase:     tb30,
		AvgFrameRate: ports.Rational{Num: 30, Den: 1},
		Duration:     10,
	}
}

func feed(t *testing.T, format ports.PixelFormat, timestamps ...int64) *framechan.Receiver {
	t.Helper()
	tx, rx := framechan.New(len(timestamps) + 1)
	for _, ts := range timestamps {
		f, err := ports.NewFrame(format, 4, 2)
		if err != nil {
			t.Fatal(err)
		}
		if err := tx.Send(ports.FramePacket{Frame: f, Timing: ports.Timing{Timestamp: ts, TimeBase: tb30}}); err != nil {
			t.Fatal(err)
		}
	}
	tx.Close()
	return rx
}

func newJob(t *testing.T, codec *mocks.WebPCodec, info ports.StreamInfo) ports.EncoderJob {
	t.Helper()
	job, err := New(codec, Options{}, logger.NewNoop()).Configure(info)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return job
}

func TestTask_Descriptors(t *testing.T) {
	task := New(&mocks.WebPCodec{}, Options{}, logger.NewNoop())
	if got := task.OutputPath("clip"); got != "clip.webp" {
		t.Errorf("OutputPath() = %q", got)
	}
	acc := task.AcceptedFormats()
	if len(acc.Opaque) != 1 || acc.Opaque[0] != ports.PixelFormatYUV420P {
		t.Errorf("opaque = %v", acc.Opaque)
	}
	if len(acc.Alpha) != 1 || acc.Alpha[0] != ports.PixelFormatYUVA420P {
		t.Errorf("alpha = %v", acc.Alpha)
	}
}

func TestConfigure_NoCodecParameters(t *testing.T) {
	task := New(&mocks.WebPCodec{}, Options{}, logger.NewNoop())
	for _, dims := range [][2]int{{0, 2}, {4, 0}, {-1, -1}} {
		info := stream()
		info.Width, info.Height = dims[0], dims[1]
		if _, err := task.Configure(info); !errors.Is(err, ErrNoCodecParameters) {
			t.Errorf("Configure(%dx%d) error = %v, want ErrNoCodecParameters", dims[0], dims[1], err)
		}
	}
}

func TestRunAnimation_TenFrames(t *testing.T) {
	codec := &mocks.WebPCodec{}
	job := newJob(t, codec, stream())

	var out bytes.Buffer
	progress := &mocks.Progress{}
	stats, err := job.RunAnimation(&out, feed(t, ports.PixelFormatYUV420P, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9), progress)
	if err != nil {
		t.Fatalf("RunAnimation() error = %v", err)
	}

	enc := codec.AnimEncoder
	want := []int{0, 33, 66, 100, 133, 166, 200, 233, 266, 300}
	if len(enc.AddTimestamps) != len(want) {
		t.Fatalf("Add calls = %d, want %d", len(enc.AddTimestamps), len(want))
	}
	for i, ms := range enc.AddTimestamps {
		if ms != want[i] {
			t.Errorf("Add %d at %d ms, want %d", i, ms, want[i])
		}
	}
	if len(enc.FinalizeCalls) != 1 {
		t.Fatalf("Finalize calls = %d, want 1", len(enc.FinalizeCalls))
	}
	if enc.FinalizeCalls[0] != 333 {
		t.Errorf("Finalize at %d ms, want 333", enc.FinalizeCalls[0])
	}
	if out.Len() == 0 {
		t.Error("expected non-empty output")
	}
	if stats.String() != "Written 16 bytes" {
		t.Errorf("stats = %q", stats)
	}
	if codec.AnimCalls[0].Width != 4 || codec.AnimCalls[0].Height != 2 {
		t.Errorf("canvas = %dx%d", codec.AnimCalls[0].Width, codec.AnimCalls[0].Height)
	}
	if !enc.Closed {
		t.Error("expected encoder to be closed")
	}
	if progress.Count() != 10 || !progress.Finished() {
		t.Errorf("progress count=%d finished=%v", progress.Count(), progress.Finished())
	}
}

func TestRunAnimation_EndTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		duration int64
		ts       []int64
		want     int
	}{
		{"stream duration", 30, []int64{0, 15}, 1000},
		{"duration unknown uses last gap", 0, []int64{0, 3, 6}, 300},
		{"single frame without duration", 0, []int64{0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := stream()
			info.Duration = tt.duration
			codec := &mocks.WebPCodec{}
			job := newJob(t, codec, info)

			if _, err := job.RunAnimation(&bytes.Buffer{}, feed(t, ports.PixelFormatYUV420P, tt.ts...), &mocks.Progress{}); err != nil {
				t.Fatalf("RunAnimation() error = %v", err)
			}
			if got := codec.AnimEncoder.FinalizeCalls[0]; got != tt.want {
				t.Errorf("Finalize at %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunStill(t *testing.T) {
	tests := []struct {
		name      string
		stats     *ports.WebPStats
		wantStats string
	}{
		{"without stats", nil, "No stats"},
		{"with stats", &ports.WebPStats{CodedSize: 12}, (ports.WebPStats{CodedSize: 12}).String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := &mocks.WebPCodec{
				StillChunks: [][]byte{[]byte("RIFF"), []byte("....WEBP"), []byte("VP8 ")},
				StillStats:  tt.stats,
			}
			job := newJob(t, codec, stream())

			w := &countingWriter{}
			stats, err := job.RunStill(w, feed(t, ports.PixelFormatYUVA420P, 0), &mocks.Progress{})
			if err != nil {
				t.Fatalf("RunStill() error = %v", err)
			}
			if w.writes != 1 {
				t.Errorf("writes = %d, want 1", w.writes)
			}
			if w.buf.String() != "RIFF....WEBPVP8 " {
				t.Errorf("output = %q", w.buf.String())
			}
			if stats.String() != tt.wantStats {
				t.Errorf("stats = %q, want %q", stats, tt.wantStats)
			}
			if len(codec.AnimCalls) != 0 {
				t.Error("still run must not create an animation encoder")
			}
		})
	}
}

func TestRunStill_NoFrame(t *testing.T) {
	codec := &mocks.WebPCodec{}
	job := newJob(t, codec, stream())

	var out bytes.Buffer
	if _, err := job.RunStill(&out, feed(t, ports.PixelFormatYUV420P), &mocks.Progress{}); !errors.Is(err, pipeline.ErrNoImageReceived) {
		t.Fatalf("RunStill() error = %v, want ErrNoImageReceived", err)
	}
	if out.Len() != 0 || len(codec.StillConfigs) != 0 {
		t.Error("expected no encode and no output")
	}
}

func TestRun_Errors(t *testing.T) {
	nativeErr := &ports.EncoderError{Codec: "webp", Op: "add frame", Message: "bad dimensions"}

	tests := []struct {
		name    string
		codec   *mocks.WebPCodec
		still   bool
		format  ports.PixelFormat
		ts      []int64
		wantErr error
	}{
		{"anim creation", &mocks.WebPCodec{NewAnimErr: nativeErr}, false, ports.PixelFormatYUV420P, []int64{0}, nativeErr},
		{"anim add", &mocks.WebPCodec{AnimEncoder: &mocks.WebPAnimEncoder{AddErr: nativeErr}}, false, ports.PixelFormatYUV420P, []int64{0}, nativeErr},
		{"anim finalize", &mocks.WebPCodec{AnimEncoder: &mocks.WebPAnimEncoder{FinalizeErr: nativeErr}}, false, ports.PixelFormatYUV420P, []int64{0}, nativeErr},
		{"anim empty", &mocks.WebPCodec{AnimEncoder: &mocks.WebPAnimEncoder{FinalizeErr: nativeErr}}, false, ports.PixelFormatYUV420P, nil, nativeErr},
		{"anim wrong format", &mocks.WebPCodec{}, false, ports.PixelFormatYUV444P, []int64{0}, pipeline.ErrFrameConversion},
		{"still native", &mocks.WebPCodec{StillErr: nativeErr}, true, ports.PixelFormatYUV420P, []int64{0}, nativeErr},
		{"still wrong format", &mocks.WebPCodec{}, true, ports.PixelFormatRGBA, []int64{0}, pipeline.ErrFrameConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newJob(t, tt.codec, stream())
			var out bytes.Buffer
			var err error
			if tt.still {
				_, err = job.RunStill(&out, feed(t, tt.format, tt.ts...), &mocks.Progress{})
			} else {
				_, err = job.RunAnimation(&out, feed(t, tt.format, tt.ts...), &mocks.Progress{})
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if out.Len() != 0 {
				t.Error("expected no output on failure")
			}
		})
	}
}

func TestRunAnimation_EmptyStreamFinalizes(t *testing.T) {
	assembleErr := &ports.EncoderError{Codec: "webp", Op: "assemble", Message: "no frames"}
	codec := &mocks.WebPCodec{AnimEncoder: &mocks.WebPAnimEncoder{FinalizeErr: assembleErr}}
	job := newJob(t, codec, stream())

	_, err := job.RunAnimation(&bytes.Buffer{}, feed(t, ports.PixelFormatYUV420P), &mocks.Progress{})
	if errors.Is(err, pipeline.ErrNoImageReceived) {
		t.Fatalf("empty animation reported %v", err)
	}
	var encErr *ports.EncoderError
	if !errors.As(err, &encErr) || encErr.Op != "assemble" {
		t.Errorf("error = %v, want the native assemble error", err)
	}
	enc := codec.AnimEncoder
	if len(enc.AddTimestamps) != 0 || len(enc.FinalizeCalls) != 1 {
		t.Errorf("add calls %v, finalize calls %v", enc.AddTimestamps, enc.FinalizeCalls)
	}
	if !enc.Closed {
		t.Error("expected the encoder to be closed")
	}
}

func TestJob_RunsOnce(t *testing.T) {
	job := newJob(t, &mocks.WebPCodec{}, stream())
	if _, err := job.RunAnimation(&bytes.Buffer{}, feed(t, ports.PixelFormatYUV420P, 0), &mocks.Progress{}); err != nil {
		t.Fatal(err)
	}
	if _, err := job.RunStill(&bytes.Buffer{}, feed(t, ports.PixelFormatYUV420P, 0), &mocks.Progress{}); !errors.Is(err, pipeline.ErrJobUsed) {
		t.Errorf("second run error = %v, want ErrJobUsed", err)
	}
}

type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.buf.Write(p)
}
