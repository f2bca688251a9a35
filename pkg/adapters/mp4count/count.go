// Package mp4count counts video samples in MP4 and MOV files when the
// demuxer does not report a frame count.
package mp4count

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/vidanim/pkg/ports"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("mp4count: no video track")

// SampleCounter counts samples of the first video track.
type SampleCounter struct{}

var _ ports.FrameCounter = (*SampleCounter)(nil)

// New creates a new SampleCounter.
func New() *SampleCounter {
	return &SampleCounter{}
}

// CountFrames returns the number of samples of the first video track in path.
func (c *SampleCounter) CountFrames(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return CountFromReader(f)
}

// CountFromReader is CountFrames over an io.ReadSeeker. Media data is not read.
func CountFromReader(r io.ReadSeeker) (int64, error) {
	file, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return 0, fmt.Errorf("decode mp4: %w", err)
	}

	if file.IsFragmented() {
		return countFragmented(file)
	}
	return countProgressive(file)
}

func countProgressive(file *mp4.File) (int64, error) {
	if file.Moov == nil {
		return 0, ErrNoVideoTrack
	}
	trak := videoTrack(file.Moov.Traks)
	if trak == nil {
		return 0, ErrNoVideoTrack
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return 0, fmt.Errorf("mp4count: video track %d has no stsz box", trak.Tkhd.TrackID)
	}
	return int64(stbl.Stsz.SampleNumber), nil
}

func countFragmented(file *mp4.File) (int64, error) {
	if file.Init == nil || file.Init.Moov == nil {
		return 0, ErrNoVideoTrack
	}
	trak := videoTrack(file.Init.Moov.Traks)
	if trak == nil {
		return 0, ErrNoVideoTrack
	}
	trackID := trak.Tkhd.TrackID

	var n int64
	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					n += int64(trun.SampleCount())
				}
			}
		}
	}
	return n, nil
}

func videoTrack(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Tkhd == nil || trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		if trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}
