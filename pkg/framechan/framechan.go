// Package framechan is the bounded hand-off between the decode worker and
// the encode worker.
package framechan

import (
	"errors"
	"sync"

	"github.com/user/vidanim/pkg/ports"
)

// DefaultCapacity is used for multi-frame streams.
const DefaultCapacity = 20

// ErrClosed is returned by Send once the receiving side has gone away.
var ErrClosed = errors.New("framechan: receiver closed")

type channel struct {
	packets chan ports.FramePacket
	done    chan struct{}

	sendOnce sync.Once
	recvOnce sync.Once
}

// Sender is the producer end. It must be used from a single goroutine.
type Sender struct {
	c *channel
}

// Receiver is the consumer end. It must be used from a single goroutine.
type Receiver struct {
	c *channel
}

var (
	_ ports.FrameSender   = (*Sender)(nil)
	_ ports.FrameReceiver = (*Receiver)(nil)
)

// New creates a channel holding at most capacity in-flight packets.
// Capacities below 1 are raised to 1.
func New(capacity int) (*Sender, *Receiver) {
	if capacity < 1 {
		capacity = 1
	}
	c := &channel{
		packets: make(chan ports.FramePacket, capacity),
		done:    make(chan struct{}),
	}
	return &Sender{c: c}, &Receiver{c: c}
}

// Capacity returns the channel bound for a stream of frames frames: 1 for a
// single-frame stream, def otherwise (DefaultCapacity when def < 1).
func Capacity(frames int64, def int) int {
	if frames == 1 {
		return 1
	}
	if def < 1 {
		return DefaultCapacity
	}
	return def
}

// Send blocks while the buffer is full. It fails with ErrClosed when the
// receiver was closed before or during the wait.
func (s *Sender) Send(p ports.FramePacket) error {
	select {
	case <-s.c.done:
		return ErrClosed
	default:
	}
	select {
	case s.c.packets <- p:
		return nil
	case <-s.c.done:
		return ErrClosed
	}
}

// Full reports whether the next Send would block.
func (s *Sender) Full() bool {
	return len(s.c.packets) == cap(s.c.packets)
}

// Close marks end of stream. Packets already sent stay receivable.
func (s *Sender) Close() {
	s.c.sendOnce.Do(func() { close(s.c.packets) })
}

// Recv returns the next packet in send order. ok is false after the sender
// closed and the buffer is drained.
func (r *Receiver) Recv() (ports.FramePacket, bool) {
	p, ok := <-r.c.packets
	return p, ok
}

// Close tells the sender that no more packets will be received.
func (r *Receiver) Close() {
	r.c.recvOnce.Do(func() { close(r.c.done) })
}
