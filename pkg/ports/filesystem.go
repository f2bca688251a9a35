package ports

import "io"

// FileSystem abstracts the file operations of a run.
type FileSystem interface {
	// Create opens path for writing, creating or truncating it.
	Create(path string) (io.WriteCloser, error)

	// WriteFile writes data to a file, creating parent directories.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Size returns the length of a regular file in bytes.
	Size(path string) (int64, error)
}
