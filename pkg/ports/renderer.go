package ports

import "image"

// ImageFormat specifies a snapshot encoding.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)

// Renderer prepares and encodes debug snapshots.
type Renderer interface {
	// Snapshot scales img to at most maxWidth pixels wide (0 keeps the size)
	// and draws label in the top-left corner.
	Snapshot(img image.Image, maxWidth int, label string) image.Image

	// EncodeImage encodes an image to the given format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}
