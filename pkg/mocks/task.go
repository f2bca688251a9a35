package mocks

import (
	"io"

	"github.com/user/vidanim/pkg/ports"
)

// StringStats is a fixed ports.Stats.
type StringStats string

func (s StringStats) String() string { return string(s) }

// EncoderTask is a mock implementation of ports.EncoderTask.
type EncoderTask struct {
	Accepted     ports.AcceptedFormats
	Ext          string
	ConfigureErr error
	Job          *EncoderJob

	ConfiguredWith []ports.StreamInfo
}

func (m *EncoderTask) Name() string { return "mock" }

func (m *EncoderTask) AcceptedFormats() ports.AcceptedFormats {
	return m.Accepted
}

func (m *EncoderTask) OutputPath(base string) string {
	ext := m.Ext
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func (m *EncoderTask) Configure(stream ports.StreamInfo) (ports.EncoderJob, error) {
	m.ConfiguredWith = append(m.ConfiguredWith, stream)
	if m.ConfigureErr != nil {
		return nil, m.ConfigureErr
	}
	if m.Job == nil {
		m.Job = &EncoderJob{}
	}
	return m.Job, nil
}

var _ ports.EncoderTask = (*EncoderTask)(nil)

// EncoderJob drains the receiver and writes Output. RunFunc replaces the
// whole behavior when set.
type EncoderJob struct {
	RunFunc func(still bool, w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error)
	Output  []byte

	// Recorded for verification
	StillRuns     int
	AnimationRuns int
	Received      []ports.FramePacket
}

func (m *EncoderJob) RunStill(w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	m.StillRuns++
	return m.run(true, w, frames, progress)
}

func (m *EncoderJob) RunAnimation(w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	m.AnimationRuns++
	return m.run(false, w, frames, progress)
}

func (m *EncoderJob) run(still bool, w io.Writer, frames ports.FrameReceiver, progress ports.Progress) (ports.Stats, error) {
	if m.RunFunc != nil {
		return m.RunFunc(still, w, frames, progress)
	}
	for {
		p, ok := frames.Recv()
		if !ok {
			break
		}
		m.Received = append(m.Received, p)
		progress.Increment()
	}
	progress.Finish()
	if _, err := w.Write(m.Output); err != nil {
		return nil, err
	}
	return StringStats("mock stats"), nil
}

var _ ports.EncoderJob = (*EncoderJob)(nil)
