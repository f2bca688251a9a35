package mocks

import (
	"image"

	"github.com/user/vidanim/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	SnapshotFunc    func(img image.Image, maxWidth int, label string) image.Image
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	SnapshotLabels []string
}

func (m *Renderer) Snapshot(img image.Image, maxWidth int, label string) image.Image {
	m.SnapshotLabels = append(m.SnapshotLabels, label)
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(img, maxWidth, label)
	}
	return img
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

var _ ports.Renderer = (*Renderer)(nil)
