package libwebp

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/image/webp"

	"github.com/user/vidanim/pkg/ports"
)

func newTestFrame(t *testing.T, format ports.PixelFormat, w, h int, luma byte) *ports.Frame {
	t.Helper()
	f, err := ports.NewFrame(format, w, h)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	for i := range f.Planes {
		fill := byte(128)
		switch i {
		case 0:
			fill = luma
		case 3:
			fill = 255
		}
		for j := range f.Planes[i] {
			f.Planes[i][j] = fill
		}
	}
	return f
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

type chunkWriter struct {
	bytes.Buffer
	chunks int
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	c.chunks++
	return c.Buffer.Write(p)
}

func TestEncodeStill(t *testing.T) {
	quality := float32(60)
	tests := []struct {
		name   string
		format ports.PixelFormat
		cfg    ports.WebPConfig
	}{
		{"yuv420p default", ports.PixelFormatYUV420P, ports.WebPConfig{}},
		{"yuv420p photo", ports.PixelFormatYUV420P, ports.WebPConfig{Preset: ports.WebPPresetPhoto, Quality: &quality}},
		{"yuva420p", ports.PixelFormatYUVA420P, ports.WebPConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out chunkWriter
			stats, err := New().EncodeStill(newTestFrame(t, tt.format, 35, 21, 100), tt.cfg, &out)
			if err != nil {
				t.Fatalf("EncodeStill: %v", err)
			}
			if out.chunks == 0 {
				t.Fatal("writer was never called")
			}
			if stats == nil || stats.CodedSize == 0 {
				t.Errorf("stats = %+v, want a coded size", stats)
			}

			cfg, err := webp.DecodeConfig(bytes.NewReader(out.Bytes()))
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if cfg.Width != 35 || cfg.Height != 21 {
				t.Errorf("decoded size = %dx%d, want 35x21", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestEncodeStill_Lossless(t *testing.T) {
	lossless := true
	var out bytes.Buffer
	if _, err := New().EncodeStill(newTestFrame(t, ports.PixelFormatYUV420P, 16, 16, 30), ports.WebPConfig{Lossless: &lossless}, &out); err != nil {
		t.Fatalf("EncodeStill: %v", err)
	}
	img, err := webp.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("decoded width = %d, want 16", img.Bounds().Dx())
	}
}

func TestEncodeStill_WriterError(t *testing.T) {
	_, err := New().EncodeStill(newTestFrame(t, ports.PixelFormatYUV420P, 16, 16, 30), ports.WebPConfig{}, failingWriter{})
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
	var encErr *ports.EncoderError
	if errors.As(err, &encErr) {
		t.Errorf("writer failure reported as encoder error: %v", err)
	}
}

func TestEncodeStill_InvalidConfig(t *testing.T) {
	method := 42
	_, err := New().EncodeStill(newTestFrame(t, ports.PixelFormatYUV420P, 8, 8, 0), ports.WebPConfig{Method: &method}, &bytes.Buffer{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestEncodeStill_UnsupportedFormat(t *testing.T) {
	_, err := New().EncodeStill(newTestFrame(t, ports.PixelFormatYUV444P, 8, 8, 0), ports.WebPConfig{}, &bytes.Buffer{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestAnimEncoder(t *testing.T) {
	loop := 0
	bg := uint32(0xff000000)
	anim := ports.WebPAnimOptions{
		KeyframeDistance: &ports.KeyframeDistance{Min: 0, Max: 1},
		BackgroundColor:  &bg,
		LoopCount:        &loop,
	}
	enc, err := New().NewAnimEncoder(24, 16, anim, ports.WebPConfig{})
	if err != nil {
		t.Fatalf("NewAnimEncoder: %v", err)
	}
	defer enc.Close()

	for i, ts := range []int{0, 33, 66, 100} {
		if err := enc.Add(newTestFrame(t, ports.PixelFormatYUV420P, 24, 16, byte(50*i)), ts); err != nil {
			t.Fatalf("Add(%d): %v", ts, err)
		}
	}
	data, err := enc.Finalize(133)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(data) < 16 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("output is not a RIFF WEBP file: % x", data[:min(len(data), 16)])
	}
	if !bytes.Contains(data, []byte("ANIM")) || !bytes.Contains(data, []byte("ANMF")) {
		t.Error("output has no animation chunks")
	}
}

func TestAnimEncoder_NonIncreasingTimestamp(t *testing.T) {
	enc, err := New().NewAnimEncoder(8, 8, ports.WebPAnimOptions{}, ports.WebPConfig{})
	if err != nil {
		t.Fatalf("NewAnimEncoder: %v", err)
	}
	defer enc.Close()

	if err := enc.Add(newTestFrame(t, ports.PixelFormatYUV420P, 8, 8, 0), 100); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err = enc.Add(newTestFrame(t, ports.PixelFormatYUV420P, 8, 8, 0), 50)
	var encErr *ports.EncoderError
	if !errors.As(err, &encErr) {
		t.Fatalf("error = %v, want *ports.EncoderError", err)
	}
	if encErr.Message == "" {
		t.Error("encoder error has no native message")
	}
}

func TestAnimEncoder_Closed(t *testing.T) {
	enc, err := New().NewAnimEncoder(8, 8, ports.WebPAnimOptions{}, ports.WebPConfig{})
	if err != nil {
		t.Fatalf("NewAnimEncoder: %v", err)
	}
	enc.Close()
	enc.Close()

	if err := enc.Add(newTestFrame(t, ports.PixelFormatYUV420P, 8, 8, 0), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Add after Close error = %v, want ErrClosed", err)
	}
	if _, err := enc.Finalize(10); !errors.Is(err, ErrClosed) {
		t.Errorf("Finalize after Close error = %v, want ErrClosed", err)
	}
}
