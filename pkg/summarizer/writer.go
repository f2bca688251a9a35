package summarizer

import (
	"fmt"
	"io"
	"os"

	"github.com/user/vidanim/pkg/ports"
)

// StdoutPath makes Write print the summary instead of saving it.
const StdoutPath = "-"

// Writer saves formatted summaries through a ports.FileSystem.
type Writer struct {
	formatter Formatter
	fs        ports.FileSystem
	stdout    io.Writer
}

func NewWriter(formatter Formatter, fs ports.FileSystem) *Writer {
	return &Writer{formatter: formatter, fs: fs, stdout: os.Stdout}
}

// WithStdout redirects summaries written to StdoutPath.
func (w *Writer) WithStdout(out io.Writer) *Writer {
	w.stdout = out
	return w
}

// Write formats summary and stores it at path. The file system creates
// missing parent directories.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.formatter.Format(summary)
	if path == StdoutPath {
		_, err := io.WriteString(w.stdout, content)
		return err
	}
	if err := w.fs.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
