package ffsource

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/vidanim/pkg/ports"
)

// Decoder feeds packets of one stream to an FFmpeg decoder.
type Decoder struct {
	fc     *astiav.FormatContext
	cc     *astiav.CodecContext
	index  int
	pkt    *astiav.Packet
	frame  *astiav.Frame
	width  int
	height int
	eof    bool
}

var _ ports.Decoder = (*Decoder)(nil)

// PixelFormat returns the decoder's output format.
func (d *Decoder) PixelFormat() ports.PixelFormat {
	return FromAstiav(d.cc.PixelFormat())
}

// NewResampler creates a bilinear swscale context from the decoder's format
// to target at the stream's dimensions.
func (d *Decoder) NewResampler(target ports.PixelFormat) (ports.Resampler, error) {
	dst, ok := ToAstiav(target)
	if !ok {
		return nil, fmt.Errorf("ffsource: no native format for %s", target)
	}
	ssc, err := astiav.CreateSoftwareScaleContext(
		d.width, d.height, d.cc.PixelFormat(),
		d.width, d.height, dst,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return nil, fmt.Errorf("ffsource: create scale context %s -> %s: %w", d.cc.PixelFormat(), dst, err)
	}
	return &Resampler{ssc: ssc, target: target, dstFormat: dst, dst: astiav.AllocFrame()}, nil
}

// SendNext reads packets until one belongs to the selected stream and sends
// it. At end of container it sends the flush signal instead.
func (d *Decoder) SendNext() (bool, error) {
	if d.eof {
		return true, nil
	}
	for {
		err := d.fc.ReadFrame(d.pkt)
		if errors.Is(err, astiav.ErrEof) {
			d.eof = true
			if err := d.cc.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
				return true, fmt.Errorf("send flush: %w", err)
			}
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("read packet: %w", err)
		}
		if d.pkt.StreamIndex() != d.index {
			d.pkt.Unref()
			continue
		}
		err = d.cc.SendPacket(d.pkt)
		d.pkt.Unref()
		if err != nil {
			return false, fmt.Errorf("send packet: %w", err)
		}
		return false, nil
	}
}

// Receive pulls one frame. The frame is overwritten by the next Receive.
func (d *Decoder) Receive() (ports.DecodedFrame, bool, error) {
	d.frame.Unref()
	err := d.cc.ReceiveFrame(d.frame)
	if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("receive frame: %w", err)
	}
	return decodedFrame{f: d.frame}, true, nil
}

// Close releases the decoder and its buffers.
func (d *Decoder) Close() error {
	d.frame.Free()
	d.pkt.Free()
	d.cc.Free()
	return nil
}

type decodedFrame struct {
	f *astiav.Frame
}

// Timestamp prefers the presentation timestamp and falls back to the
// packet decode timestamp.
func (f decodedFrame) Timestamp() (int64, bool) {
	if pts := f.f.Pts(); pts != astiav.NoPtsValue {
		return pts, true
	}
	if dts := f.f.PktDts(); dts != astiav.NoPtsValue {
		return dts, true
	}
	return 0, false
}

func (f decodedFrame) Export() (*ports.Frame, error) {
	return export(f.f, FromAstiav(f.f.PixelFormat()))
}

func export(f *astiav.Frame, format ports.PixelFormat) (*ports.Frame, error) {
	buf, err := f.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("copy frame data: %w", err)
	}
	return ports.FrameFromPacked(format, f.Width(), f.Height(), buf)
}

// Resampler wraps a swscale context and reuses one destination frame.
type Resampler struct {
	ssc       *astiav.SoftwareScaleContext
	target    ports.PixelFormat
	dstFormat astiav.PixelFormat
	dst       *astiav.Frame
}

var _ ports.Resampler = (*Resampler)(nil)

func (r *Resampler) Resample(src ports.DecodedFrame) (*ports.Frame, error) {
	df, ok := src.(decodedFrame)
	if !ok {
		return nil, fmt.Errorf("ffsource: cannot resample %T", src)
	}
	r.dst.Unref()
	r.dst.SetWidth(df.f.Width())
	r.dst.SetHeight(df.f.Height())
	r.dst.SetPixelFormat(r.dstFormat)
	if err := r.dst.AllocBuffer(0); err != nil {
		return nil, fmt.Errorf("allocate scaled frame: %w", err)
	}
	if err := r.ssc.ScaleFrame(df.f, r.dst); err != nil {
		return nil, fmt.Errorf("scale frame: %w", err)
	}
	return export(r.dst, r.target)
}

func (r *Resampler) Close() error {
	r.dst.Free()
	r.ssc.Free()
	return nil
}
