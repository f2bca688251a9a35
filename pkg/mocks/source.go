package mocks

import (
	"github.com/user/vidanim/pkg/ports"
)

// MediaOpener is a mock implementation of ports.MediaOpener.
type MediaOpener struct {
	Source   *MediaSource
	OpenFunc func(path string) (ports.MediaSource, error)

	OpenCalls []string
}

func (m *MediaOpener) Open(path string) (ports.MediaSource, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return m.Source, nil
}

var _ ports.MediaOpener = (*MediaOpener)(nil)

// MediaSource is a mock implementation of ports.MediaSource.
type MediaSource struct {
	Info    ports.StreamInfo
	Decoder *Decoder
	OpenErr error

	Closed bool
}

func (m *MediaSource) Stream() ports.StreamInfo {
	return m.Info
}

func (m *MediaSource) OpenDecoder() (ports.Decoder, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return m.Decoder, nil
}

func (m *MediaSource) Close() error {
	m.Closed = true
	return nil
}

var _ ports.MediaSource = (*MediaSource)(nil)

// Decoder is a scripted implementation of ports.Decoder.
//
// Batches[i] holds the frames that become ready after the i-th SendNext.
// The last batch is released by the end-of-stream signal, so a decoder with
// n batches reports eof on the n-th SendNext.
type Decoder struct {
	Format  ports.PixelFormat
	Batches [][]*DecodedFrame

	SendErr     error
	ReceiveErr  error
	ResampleErr error

	NewResamplerFunc func(target ports.PixelFormat) (ports.Resampler, error)

	// Recorded calls for verification
	Sends      int
	Received   int
	Resamplers []*Resampler
	Closed     bool

	pending []*DecodedFrame
}

func (m *Decoder) PixelFormat() ports.PixelFormat {
	return m.Format
}

func (m *Decoder) NewResampler(target ports.PixelFormat) (ports.Resampler, error) {
	if m.NewResamplerFunc != nil {
		return m.NewResamplerFunc(target)
	}
	r := &Resampler{Target: target, Err: m.ResampleErr}
	m.Resamplers = append(m.Resamplers, r)
	return r, nil
}

func (m *Decoder) SendNext() (bool, error) {
	if m.SendErr != nil {
		return false, m.SendErr
	}
	if m.Sends < len(m.Batches) {
		m.pending = append(m.pending, m.Batches[m.Sends]...)
	}
	m.Sends++
	return m.Sends >= len(m.Batches), nil
}

func (m *Decoder) Receive() (ports.DecodedFrame, bool, error) {
	if m.ReceiveErr != nil {
		return nil, false, m.ReceiveErr
	}
	if len(m.pending) == 0 {
		return nil, false, nil
	}
	f := m.pending[0]
	m.pending = m.pending[1:]
	m.Received++
	return f, true, nil
}

func (m *Decoder) Close() error {
	m.Closed = true
	return nil
}

var _ ports.Decoder = (*Decoder)(nil)

// DecodedFrame is a mock implementation of ports.DecodedFrame.
type DecodedFrame struct {
	TS        int64
	NoTS      bool
	Frame     *ports.Frame
	ExportErr error

	Exported bool
}

// NewDecodedFrame returns a decoded frame with a blank picture.
func NewDecodedFrame(format ports.PixelFormat, width, height int, ts int64) *DecodedFrame {
	f, err := ports.NewFrame(format, width, height)
	if err != nil {
		f = &ports.Frame{Format: format, Width: width, Height: height}
	}
	return &DecodedFrame{TS: ts, Frame: f}
}

func (m *DecodedFrame) Timestamp() (int64, bool) {
	return m.TS, !m.NoTS
}

func (m *DecodedFrame) Export() (*ports.Frame, error) {
	m.Exported = true
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.Frame, nil
}

var _ ports.DecodedFrame = (*DecodedFrame)(nil)

// Resampler converts frames by allocating a blank frame in Target.
type Resampler struct {
	Target ports.PixelFormat
	Err    error

	Calls  int
	Closed bool
}

func (m *Resampler) Resample(src ports.DecodedFrame) (*ports.Frame, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	in, err := src.Export()
	if err != nil {
		return nil, err
	}
	return ports.NewFrame(m.Target, in.Width, in.Height)
}

func (m *Resampler) Close() error {
	m.Closed = true
	return nil
}

var _ ports.Resampler = (*Resampler)(nil)

// FrameCounter is a mock implementation of ports.FrameCounter.
type FrameCounter struct {
	Count int64
	Err   error

	Calls []string
}

func (m *FrameCounter) CountFrames(path string) (int64, error) {
	m.Calls = append(m.Calls, path)
	return m.Count, m.Err
}

var _ ports.FrameCounter = (*FrameCounter)(nil)
