// Package summarizer provides summary generation for transcode results.
package summarizer

import "time"

// Summary contains everything reported about one transcode.
type Summary struct {
	GeneratedAt time.Time

	Input    InputInfo
	Settings []Setting
	Output   OutputInfo

	// Per-worker report lines
	Decoder string
	Encoder string
}

// InputInfo describes the selected input stream.
type InputInfo struct {
	Path        string
	Codec       string
	Width       int
	Height      int
	PixelFormat string
	TimeBase    string
	FrameRate   string
	Frames      int64
	DurationMs  int64
}

// Setting is one effective encoder option.
type Setting struct {
	Name  string
	Value string
}

// OutputInfo describes the written file.
type OutputInfo struct {
	Path      string
	Format    string
	Mode      string
	FileSize  int64
	Stats     string
	Succeeded bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets the input stream information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithSetting appends an encoder option. Empty values are skipped.
func (b *Builder) WithSetting(name, value string) *Builder {
	if value != "" {
		b.summary.Settings = append(b.summary.Settings, Setting{Name: name, Value: value})
	}
	return b
}

// WithOutput sets the output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithWorkers sets the per-worker report lines.
func (b *Builder) WithWorkers(decoder, encoder string) *Builder {
	b.summary.Decoder = decoder
	b.summary.Encoder = encoder
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
