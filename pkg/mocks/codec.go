package mocks

import (
	"io"

	"github.com/user/vidanim/pkg/ports"
)

// AVIFCodec is a mock implementation of ports.AVIFCodec.
type AVIFCodec struct {
	NewEncoderErr error
	Encoder       *AVIFEncoder

	Settings []ports.AVIFEncoderSettings
}

func (m *AVIFCodec) NewEncoder(settings ports.AVIFEncoderSettings) (ports.AVIFEncoder, error) {
	m.Settings = append(m.Settings, settings)
	if m.NewEncoderErr != nil {
		return nil, m.NewEncoderErr
	}
	if m.Encoder == nil {
		m.Encoder = &AVIFEncoder{}
	}
	return m.Encoder, nil
}

var _ ports.AVIFCodec = (*AVIFCodec)(nil)

// AVIFEncoder is a mock implementation of ports.AVIFEncoder.
type AVIFEncoder struct {
	AddImageErr error
	FinishErr   error
	SingleErr   error
	// Output is returned by Finish and EncodeSingle. Defaults to an ftyp stub.
	Output []byte

	// Recorded calls for verification
	AddImageCalls []AddImageCall
	FinishCalled  bool
	SingleCalls   []*ports.Frame
	Closed        bool
}

// AddImageCall records a call to AddImage.
type AddImageCall struct {
	Format   ports.PixelFormat
	Duration uint64
}

func (m *AVIFEncoder) AddImage(f *ports.Frame, durationInTimescales uint64) error {
	m.AddImageCalls = append(m.AddImageCalls, AddImageCall{Format: f.Format, Duration: durationInTimescales})
	return m.AddImageErr
}

func (m *AVIFEncoder) Finish() ([]byte, error) {
	m.FinishCalled = true
	if m.FinishErr != nil {
		return nil, m.FinishErr
	}
	return m.output(), nil
}

func (m *AVIFEncoder) EncodeSingle(f *ports.Frame) ([]byte, error) {
	m.SingleCalls = append(m.SingleCalls, f)
	if m.SingleErr != nil {
		return nil, m.SingleErr
	}
	return m.output(), nil
}

func (m *AVIFEncoder) Describe() string {
	return "mock encoder"
}

func (m *AVIFEncoder) Close() {
	m.Closed = true
}

func (m *AVIFEncoder) output() []byte {
	if m.Output != nil {
		return m.Output
	}
	return []byte("\x00\x00\x00\x1cftypavif")
}

var _ ports.AVIFEncoder = (*AVIFEncoder)(nil)

// WebPCodec is a mock implementation of ports.WebPCodec.
type WebPCodec struct {
	StillErr error
	// StillChunks are written to the sink, one Write per chunk.
	StillChunks [][]byte
	StillStats  *ports.WebPStats

	NewAnimErr  error
	AnimEncoder *WebPAnimEncoder

	// Recorded calls for verification
	StillConfigs []ports.WebPConfig
	AnimCalls    []NewAnimCall
}

// NewAnimCall records a call to NewAnimEncoder.
type NewAnimCall struct {
	Width, Height int
	Anim          ports.WebPAnimOptions
	Config        ports.WebPConfig
}

func (m *WebPCodec) EncodeStill(f *ports.Frame, cfg ports.WebPConfig, sink io.Writer) (*ports.WebPStats, error) {
	m.StillConfigs = append(m.StillConfigs, cfg)
	if m.StillErr != nil {
		return nil, m.StillErr
	}
	chunks := m.StillChunks
	if chunks == nil {
		chunks = [][]byte{[]byte("RIFF"), []byte("\x00\x00\x00\x00WEBP")}
	}
	for _, c := range chunks {
		if _, err := sink.Write(c); err != nil {
			return nil, err
		}
	}
	return m.StillStats, nil
}

func (m *WebPCodec) NewAnimEncoder(width, height int, anim ports.WebPAnimOptions, cfg ports.WebPConfig) (ports.WebPAnimEncoder, error) {
	m.AnimCalls = append(m.AnimCalls, NewAnimCall{Width: width, Height: height, Anim: anim, Config: cfg})
	if m.NewAnimErr != nil {
		return nil, m.NewAnimErr
	}
	if m.AnimEncoder == nil {
		m.AnimEncoder = &WebPAnimEncoder{}
	}
	return m.AnimEncoder, nil
}

var _ ports.WebPCodec = (*WebPCodec)(nil)

// WebPAnimEncoder is a mock implementation of ports.WebPAnimEncoder.
type WebPAnimEncoder struct {
	AddErr      error
	FinalizeErr error
	Output      []byte

	// Recorded calls for verification
	AddTimestamps []int
	FinalizeCalls []int
	Closed        bool
}

func (m *WebPAnimEncoder) Add(f *ports.Frame, timestampMs int) error {
	m.AddTimestamps = append(m.AddTimestamps, timestampMs)
	return m.AddErr
}

func (m *WebPAnimEncoder) Finalize(endTimestampMs int) ([]byte, error) {
	m.FinalizeCalls = append(m.FinalizeCalls, endTimestampMs)
	if m.FinalizeErr != nil {
		return nil, m.FinalizeErr
	}
	if m.Output != nil {
		return m.Output, nil
	}
	return []byte("RIFF\x00\x00\x00\x00WEBPVP8X"), nil
}

func (m *WebPAnimEncoder) Close() {
	m.Closed = true
}

var _ ports.WebPAnimEncoder = (*WebPAnimEncoder)(nil)
