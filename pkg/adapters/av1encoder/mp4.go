package av1encoder

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

const obuSequenceHeader = 1

// buildMP4 writes ftyp, an init moov and a single fragment with every sample.
func (e *Encoder) buildMP4() ([]byte, error) {
	if len(e.samples) == 0 {
		return nil, ErrNoFrames
	}

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(e.timescale, "video", "und")
	trak := init.Moov.Trak
	trackID := trak.Tkhd.TrackID

	av01 := mp4.CreateVisualSampleEntryBox("av01", uint16(e.width), uint16(e.height), configRecord(e.samples))
	trak.Mdia.Minf.Stbl.Stsd.AddChild(av01)
	trak.Tkhd.Width = mp4.Fixed32(e.width << 16)
	trak.Tkhd.Height = mp4.Fixed32(e.height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("av1encoder: create fragment: %w", err)
	}
	for _, s := range e.samples {
		flags := mp4.NonSyncSampleFlags
		if s.keyframe {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(s.data)),
				Dur:   e.frameTicks,
			},
			DecodeTime: uint64(s.pts),
			Data:       s.data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("av1encoder: encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("av1encoder: encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("av1encoder: encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}

// configRecord builds the av1C box from the sequence header of the first
// keyframe. libaom emits 8-bit 4:2:0 main profile.
func configRecord(samples []sample) *mp4.Av1CBox {
	var seqHdr []byte
	for _, s := range samples {
		if s.keyframe {
			seqHdr = sequenceHeader(s.data)
			break
		}
	}
	return &mp4.Av1CBox{
		CodecConfRec: av1.CodecConfRec{
			Version:            1,
			SeqLevelIdx0:       8,
			ChromaSubsamplingX: 1,
			ChromaSubsamplingY: 1,
			ConfigOBUs:         seqHdr,
		},
	}
}

// sequenceHeader returns the sequence header OBU of a temporal unit,
// header bytes included, or nil.
func sequenceHeader(data []byte) []byte {
	offset := 0
	for offset < len(data) {
		start := offset
		header := data[offset]
		obuType := (header >> 3) & 0x0f
		hasExtension := header&0x04 != 0
		hasSize := header&0x02 != 0
		offset++
		if hasExtension {
			offset++
		}

		size := len(data) - offset
		if hasSize {
			size, offset = leb128(data, offset)
		}
		end := min(offset+size, len(data))
		if obuType == obuSequenceHeader {
			return data[start:end]
		}
		offset = end
	}
	return nil
}

func leb128(data []byte, offset int) (value, next int) {
	for i := 0; i < 8 && offset < len(data); i++ {
		b := data[offset]
		offset++
		value |= int(b&0x7f) << (i * 7)
		if b&0x80 == 0 {
			break
		}
	}
	return value, offset
}
