package ffsource

import (
	"github.com/asticode/go-astiav"
)

// DecoderOverrides maps a codec name to the decoder preferred for it.
type DecoderOverrides map[string]string

// DefaultDecoderOverrides prefers libvpx for VP8 and VP9, whose native
// ffmpeg decoders drop the alpha channel stored in WebM side data.
func DefaultDecoderOverrides() DecoderOverrides {
	return DecoderOverrides{
		"vp9": "libvpx-vp9",
		"vp8": "libvpx",
	}
}

// Merge returns a copy of o with extra applied on top. An empty value in
// extra removes the override.
func (o DecoderOverrides) Merge(extra map[string]string) DecoderOverrides {
	out := make(DecoderOverrides, len(o)+len(extra))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range extra {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Lookup returns the override decoder name for codec.
func (o DecoderOverrides) Lookup(codec string) (string, bool) {
	name, ok := o[codec]
	return name, ok && name != ""
}

// findDecoder returns the override decoder when it is available in this
// ffmpeg build, else the default decoder for id.
func (o DecoderOverrides) findDecoder(id astiav.CodecID) (*astiav.Codec, bool) {
	if name, ok := o.Lookup(id.Name()); ok {
		if c := astiav.FindDecoderByName(name); c != nil {
			return c, true
		}
	}
	return astiav.FindDecoder(id), false
}
