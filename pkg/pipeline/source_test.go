package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/user/vidanim/pkg/adapters/logger"
	"github.com/user/vidanim/pkg/framechan"
	"github.com/user/vidanim/pkg/mocks"
	"github.com/user/vidanim/pkg/ports"
)

var webpAccepted = ports.AcceptedFormats{
	Opaque: []ports.PixelFormat{ports.PixelFormatYUV420P},
	Alpha:  []ports.PixelFormat{ports.PixelFormatYUVA420P},
}

func testStream() ports.StreamInfo {
	return ports.StreamInfo{
		Width:        4,
		Height:       2,
		TimeBase:     ports.Rational{Num: 1, Den: 30},
		AvgFrameRate: ports.Rational{Num: 30, Den: 1},
		Frames:       3,
	}
}

// batches builds one decoded frame per packet, timestamps 0..n-1.
func batches(format ports.PixelFormat, n int) [][]*mocks.DecodedFrame {
	out := make([][]*mocks.DecodedFrame, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, []*mocks.DecodedFrame{mocks.NewDecodedFrame(format, 4, 2, int64(i))})
	}
	return append(out, nil)
}

func collect(rx *framechan.Receiver) []ports.FramePacket {
	var out []ports.FramePacket
	for {
		p, ok := rx.Recv()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func runEmit(t *testing.T, src *mocks.MediaSource, accepted ports.AcceptedFormats) ([]ports.FramePacket, *mocks.Progress, error) {
	t.Helper()
	tx, rx := framechan.New(4)
	progress := &mocks.Progress{}
	errCh := make(chan error, 1)
	go func() {
		errCh <- Emit(src, accepted, tx, progress, logger.NewNoop())
	}()
	packets := collect(rx)
	return packets, progress, <-errCh
}

func TestEmit_PassThrough(t *testing.T) {
	dec := &mocks.Decoder{Format: ports.PixelFormatYUV420P, Batches: batches(ports.PixelFormatYUV420P, 3)}
	src := &mocks.MediaSource{Info: testStream(), Decoder: dec}

	packets, progress, err := runEmit(t, src, webpAccepted)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if len(dec.Resamplers) != 0 {
		t.Errorf("expected no resampler, got %d", len(dec.Resamplers))
	}
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(packets))
	}
	for i, p := range packets {
		if p.Timing.Timestamp != int64(i) {
			t.Errorf("packet %d: timestamp %d", i, p.Timing.Timestamp)
		}
		if p.Timing.TimeBase != (ports.Rational{Num: 1, Den: 30}) {
			t.Errorf("packet %d: time base %s", i, p.Timing.TimeBase)
		}
		if p.Timing.Duration != 1 {
			t.Errorf("packet %d: nominal duration %d, want 1", i, p.Timing.Duration)
		}
		if p.Frame.Format != ports.PixelFormatYUV420P {
			t.Errorf("packet %d: format %s", i, p.Frame.Format)
		}
	}
	if progress.Count() != 3 || !progress.Finished() {
		t.Errorf("progress count=%d finished=%v", progress.Count(), progress.Finished())
	}
	if !dec.Closed {
		t.Error("expected decoder to be closed")
	}
}

func TestEmit_ResamplesOnce(t *testing.T) {
	tests := []struct {
		name   string
		native ports.PixelFormat
		want   ports.PixelFormat
	}{
		{"opaque source", ports.PixelFormatNV12, ports.PixelFormatYUV420P},
		{"alpha source", ports.PixelFormatRGBA, ports.PixelFormatYUVA420P},
		{"alpha yuv source", ports.PixelFormatYUVA444P, ports.PixelFormatYUVA420P},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := &mocks.Decoder{Format: tt.native, Batches: batches(tt.native, 5)}
			src := &mocks.MediaSource{Info: testStream(), Decoder: dec}

			packets, _, err := runEmit(t, src, webpAccepted)
			if err != nil {
				t.Fatalf("Emit() error = %v", err)
			}
			if len(dec.Resamplers) != 1 {
				t.Fatalf("expected exactly one resampler, got %d", len(dec.Resamplers))
			}
			r := dec.Resamplers[0]
			if r.Target != tt.want {
				t.Errorf("resampler target = %s, want %s", r.Target, tt.want)
			}
			if r.Calls != 5 {
				t.Errorf("resampler calls = %d, want 5", r.Calls)
			}
			if !r.Closed {
				t.Error("expected resampler to be closed")
			}
			for _, p := range packets {
				if p.Frame.Format != tt.want {
					t.Errorf("packet format = %s, want %s", p.Frame.Format, tt.want)
				}
			}
		})
	}
}

func TestEmit_DrainsAfterEndOfStream(t *testing.T) {
	// Two packets yield nothing; the flush releases all three frames.
	flush := []*mocks.DecodedFrame{
		mocks.NewDecodedFrame(ports.PixelFormatYUV420P, 4, 2, 0),
		mocks.NewDecodedFrame(ports.PixelFormatYUV420P, 4, 2, 1),
		mocks.NewDecodedFrame(ports.PixelFormatYUV420P, 4, 2, 2),
	}
	dec := &mocks.Decoder{
		Format:  ports.PixelFormatYUV420P,
		Batches: [][]*mocks.DecodedFrame{nil, nil, flush},
	}
	src := &mocks.MediaSource{Info: testStream(), Decoder: dec}

	packets, _, err := runEmit(t, src, webpAccepted)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if len(packets) != 3 {
		t.Errorf("expected 3 packets after flush, got %d", len(packets))
	}
	if dec.Sends != 3 {
		t.Errorf("expected 3 sends, got %d", dec.Sends)
	}
}

func TestEmit_Errors(t *testing.T) {
	decodeErr := errors.New("corrupt packet")

	tests := []struct {
		name    string
		src     func() *mocks.MediaSource
		wantErr error
	}{
		{
			name: "unknown native format",
			src: func() *mocks.MediaSource {
				return &mocks.MediaSource{Info: testStream(), Decoder: &mocks.Decoder{}}
			},
			wantErr: ErrNoPixelFormat,
		},
		{
			name: "no time base",
			src: func() *mocks.MediaSource {
				info := testStream()
				info.TimeBase = ports.Rational{}
				return &mocks.MediaSource{Info: info, Decoder: &mocks.Decoder{Format: ports.PixelFormatYUV420P}}
			},
			wantErr: ErrNoTimingInformation,
		},
		{
			name: "frame without timestamp",
			src: func() *mocks.MediaSource {
				b := batches(ports.PixelFormatYUV420P, 2)
				b[1][0].NoTS = true
				return &mocks.MediaSource{Info: testStream(), Decoder: &mocks.Decoder{Format: ports.PixelFormatYUV420P, Batches: b}}
			},
			wantErr: ErrNoTimingInformation,
		},
		{
			name: "decoder rejects packet",
			src: func() *mocks.MediaSource {
				return &mocks.MediaSource{Info: testStream(), Decoder: &mocks.Decoder{Format: ports.PixelFormatYUV420P, SendErr: decodeErr}}
			},
			wantErr: ErrDecode,
		},
		{
			name: "decoder cannot open",
			src: func() *mocks.MediaSource {
				return &mocks.MediaSource{Info: testStream(), OpenErr: decodeErr}
			},
			wantErr: ErrDecode,
		},
		{
			name: "resample fails",
			src: func() *mocks.MediaSource {
				return &mocks.MediaSource{Info: testStream(), Decoder: &mocks.Decoder{
					Format:      ports.PixelFormatNV12,
					Batches:     batches(ports.PixelFormatNV12, 1),
					ResampleErr: errors.New("swscale"),
				}}
			},
			wantErr: ErrFrameConversion,
		},
		{
			name: "no target for alpha source",
			src: func() *mocks.MediaSource {
				return &mocks.MediaSource{Info: testStream(), Decoder: &mocks.Decoder{Format: ports.PixelFormatRGBA}}
			},
			wantErr: ErrNoPixelFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted := webpAccepted
			if tt.name == "no target for alpha source" {
				accepted = ports.AcceptedFormats{Opaque: webpAccepted.Opaque}
			}
			_, progress, err := runEmit(t, tt.src(), accepted)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Emit() error = %v, want %v", err, tt.wantErr)
			}
			if !progress.Finished() {
				t.Error("expected progress to be finished on error")
			}
		})
	}
}

func TestEmit_ConsumerGone(t *testing.T) {
	dec := &mocks.Decoder{Format: ports.PixelFormatYUV420P, Batches: batches(ports.PixelFormatYUV420P, 10)}
	src := &mocks.MediaSource{Info: testStream(), Decoder: dec}

	tx, rx := framechan.New(2)
	rx.Close()

	var out, errOut bytes.Buffer
	progress := &mocks.Progress{}
	if err := Emit(src, webpAccepted, tx, progress, logger.NewConsoleWriters(ports.LevelWarn, &out, &errOut)); err != nil {
		t.Fatalf("Emit() error = %v, want nil once the consumer is gone", err)
	}
	if !strings.Contains(errOut.String(), ErrSendFrame.Error()) {
		t.Errorf("expected the failed send to be logged, got %q", errOut.String())
	}
	if !progress.Finished() {
		t.Error("expected progress to be finished")
	}
	if _, ok := rx.Recv(); ok {
		t.Error("expected no packets once the consumer is gone")
	}
	if !dec.Closed {
		t.Error("expected decoder to be closed")
	}
}
