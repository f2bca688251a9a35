package orchestrator

import (
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/vidanim/pkg/ports"
)

// debugTap passes frames through to the encoder and saves snapshots of the
// first few to the debug sink. Snapshot failures are logged only.
type debugTap struct {
	rx       ports.FrameReceiver
	sink     ports.DebugSink
	renderer ports.Renderer
	limit    int
	maxWidth int
	logger   ports.Logger

	seen int
}

func newDebugTap(rx ports.FrameReceiver, sink ports.DebugSink, renderer ports.Renderer, limit, maxWidth int, logger ports.Logger) *debugTap {
	return &debugTap{
		rx:       rx,
		sink:     sink,
		renderer: renderer,
		limit:    limit,
		maxWidth: maxWidth,
		logger:   logger,
	}
}

func (t *debugTap) Recv() (ports.FramePacket, bool) {
	p, ok := t.rx.Recv()
	if !ok {
		return p, false
	}
	if t.seen < t.limit {
		t.snapshot(t.seen, p)
	}
	t.seen++
	return p, true
}

func (t *debugTap) snapshot(index int, p ports.FramePacket) {
	img, err := p.Frame.Image()
	if err != nil {
		t.logger.Warn(l10n.F("Skipping debug snapshot of frame %d: %v", index, err))
		return
	}
	label := fmt.Sprintf("#%d %d ms %s", index, p.Timing.Milliseconds(), p.Frame.Format)
	if err := t.sink.SaveFrame(index, t.renderer.Snapshot(img, t.maxWidth, label)); err != nil {
		t.logger.Warn(l10n.F("Failed to save debug snapshot of frame %d: %v", index, err))
	}
}
