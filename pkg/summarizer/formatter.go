package summarizer

import (
	"fmt"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// MarkdownFormatter renders a Summary as Markdown tables.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

var _ Formatter = (*MarkdownFormatter)(nil)

// Option configures a MarkdownFormatter.
type Option func(*MarkdownFormatter)

// WithTranslator translates headings and row labels.
func WithTranslator(fn func(string) string) Option {
	return func(f *MarkdownFormatter) { f.translate = fn }
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) Option {
	return func(f *MarkdownFormatter) { f.version = version }
}

// NewMarkdownFormatter creates a formatter with English labels.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Transcode Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	status := t("Succeeded")
	if !s.Output.Succeeded {
		status = t("Failed")
	}
	format := s.Output.Format
	if s.Output.Mode != "" {
		format = fmt.Sprintf("%s (%s)", format, t(s.Output.Mode))
	}
	f.table(&b, "Results", [][2]string{
		{"Status", status},
		{"Output", s.Output.Path},
		{"Format", format},
		{"File Size", formatBytes(s.Output.FileSize)},
		{"Encoder Stats", s.Output.Stats},
		{"Decoder", s.Decoder},
		{"Encoder", s.Encoder},
	})

	in := s.Input
	f.table(&b, "Input", [][2]string{
		{"File", in.Path},
		{"Codec", in.Codec},
		{"Dimensions", fmt.Sprintf("%dx%d", in.Width, in.Height)},
		{"Pixel Format", in.PixelFormat},
		{"Time Base", in.TimeBase},
		{"Frame Rate", in.FrameRate},
		{"Frame Count", fmt.Sprintf("%d", in.Frames)},
		{"Duration", fmt.Sprintf("%d ms", in.DurationMs)},
	})

	if len(s.Settings) == 0 {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", t("Settings"), t("None"))
	} else {
		rows := make([][2]string, len(s.Settings))
		for i, setting := range s.Settings {
			rows[i] = [2]string{setting.Name, setting.Value}
		}
		f.table(&b, "Settings", rows)
	}

	b.WriteString("---\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s vidanim %s\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "%s vidanim\n", t("Generated by"))
	}
	return b.String()
}

// table writes a two-column section. Empty values are skipped.
func (f *MarkdownFormatter) table(b *strings.Builder, heading string, rows [][2]string) {
	t := f.translate
	fmt.Fprintf(b, "## %s\n\n", t(heading))
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(b, "| %s | %s |\n", t(row[0]), escapeCell(row[1]))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
