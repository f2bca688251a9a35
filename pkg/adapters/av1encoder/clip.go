package av1encoder

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/user/vidanim/pkg/ports"
)

// ClipSpec describes a synthetic clip: a colour ramp that shifts every
// frame with a bar sweeping across it.
type ClipSpec struct {
	Width     int
	Height    int
	Frames    int
	FrameRate ports.Rational
	// Renderer stamps the frame number on every frame when set.
	Renderer ports.Renderer
}

// Clip encodes the clip described by spec into an MP4 file.
func Clip(spec ClipSpec, opts Options) ([]byte, error) {
	if spec.Frames <= 0 {
		return nil, ErrNoFrames
	}
	enc, err := New(spec.Width, spec.Height, spec.FrameRate, opts)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	for i := 0; i < spec.Frames; i++ {
		var img image.Image = clipFrame(spec.Width, spec.Height, i, spec.Frames)
		if spec.Renderer != nil {
			img = spec.Renderer.Snapshot(img, 0, fmt.Sprintf("%d", i))
		}
		if err := enc.Encode(FrameFromImage(img)); err != nil {
			return nil, err
		}
	}
	return enc.Finish()
}

func clipFrame(width, height, index, frames int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	shift := index * 255 / frames
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*255/width + shift) % 256),
				G: uint8(y * 255 / height),
				B: uint8(255 - shift),
				A: 255,
			})
		}
	}
	barWidth := max(1, width/8)
	barX := index * (width - barWidth) / max(1, frames-1)
	draw.Draw(img, image.Rect(barX, 0, barX+barWidth, height), image.White, image.Point{}, draw.Src)
	return img
}

// FrameFromImage converts img to a YUV420P frame with BT.601 studio-range
// coefficients. Chroma is taken from the top-left pixel of each 2x2 block.
func FrameFromImage(img image.Image) *ports.Frame {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	width, height := b.Dx(), b.Dy()

	// YUV420P is always allocatable.
	f, _ := ports.NewFrame(ports.PixelFormatYUV420P, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*rgba.Stride + x*4
			r, g, bl := int(rgba.Pix[i]), int(rgba.Pix[i+1]), int(rgba.Pix[i+2])

			f.Planes[0][y*f.Strides[0]+x] = clampByte(((66*r + 129*g + 25*bl + 128) >> 8) + 16)
			if y%2 == 0 && x%2 == 0 {
				c := (y/2)*f.Strides[1] + x/2
				f.Planes[1][c] = clampByte(((-38*r - 74*g + 112*bl + 128) >> 8) + 128)
				f.Planes[2][c] = clampByte(((112*r - 94*g - 18*bl + 128) >> 8) + 128)
			}
		}
	}
	return f
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
