// Package ggrenderer renders annotated debug snapshots using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vidanim/pkg/ports"
)

const labelPadding = 4

var labelBackground = color.RGBA{R: 0, G: 0, B: 0, A: 160}

// Renderer implements ports.Renderer using the gg library.
type Renderer struct {
	labelColor color.Color
}

var _ ports.Renderer = (*Renderer)(nil)

// New creates a new Renderer with white labels.
func New() *Renderer {
	return &Renderer{labelColor: color.White}
}

// WithLabelColor returns a copy of r drawing labels in c.
func (r *Renderer) WithLabelColor(c color.Color) *Renderer {
	return &Renderer{labelColor: c}
}

// Snapshot downscales img to maxWidth, keeping the aspect ratio, and
// draws label on a translucent strip in the top-left corner.
func (r *Renderer) Snapshot(img image.Image, maxWidth int, label string) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}

	dc := gg.NewContext(w, h)
	dc.DrawImage(r.ResizeImage(img, w, h), 0, 0)

	if label != "" {
		tw, th := dc.MeasureString(label)
		dc.SetColor(labelBackground)
		dc.DrawRectangle(0, 0, tw+2*labelPadding, th+2*labelPadding)
		dc.Fill()
		dc.SetColor(r.labelColor)
		dc.DrawStringAnchored(label, labelPadding, labelPadding+th/2, 0, 0.5)
	}
	return dc.Image()
}

// ResizeImage scales img to width x height with Catmull-Rom filtering.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}
