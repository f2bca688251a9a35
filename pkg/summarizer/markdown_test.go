package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/vidanim/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Input: InputInfo{
			Path:        "clip.mp4",
			Codec:       "h264",
			Width:       640,
			Height:      360,
			PixelFormat: "yuv420p",
			TimeBase:    "1/15360",
			FrameRate:   "30/1",
			Frames:      90,
			DurationMs:  3000,
		},
		Settings: []Setting{{Name: "quality", Value: "80"}, {Name: "keyframe_distance", Value: "a|b"}},
		Output: OutputInfo{
			Path:      "out.webp",
			Format:    "webp",
			Mode:      "animation",
			FileSize:  1024 * 1024,
			Stats:     "Written 1048576 bytes",
			Succeeded: true,
		},
		Decoder: "Finished without errors.",
		Encoder: "Finished without errors.",
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Transcode Summary",
		"2024-01-15 10:30:00 UTC",
		"| Status | Succeeded |",
		"| Output | out.webp |",
		"| Format | webp (animation) |",
		"| File Size | 1.00 MB |",
		"| Encoder Stats | Written 1048576 bytes |",
		"| Codec | h264 |",
		"| Dimensions | 640x360 |",
		"| Time Base | 1/15360 |",
		"| Frame Count | 90 |",
		"| Duration | 3000 ms |",
		"| quality | 80 |",
		`| keyframe_distance | a\|b |`,
		"Generated by vidanim",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Failed(t *testing.T) {
	s := sampleSummary()
	s.Output.Succeeded = false
	s.Output.Stats = ""
	s.Encoder = "Errored: encoder exploded"
	s.Settings = nil

	result := NewMarkdownFormatter().Format(s)

	if !strings.Contains(result, "| Status | Failed |") {
		t.Error("expected failed status")
	}
	if !strings.Contains(result, "| Encoder | Errored: encoder exploded |") {
		t.Error("expected encoder outcome")
	}
	if strings.Contains(result, "Encoder Stats") {
		t.Error("empty stats row must be skipped")
	}
	if !strings.Contains(result, "## Settings\n\nNone\n") {
		t.Error("expected None for empty settings")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Transcode Summary": "変換サマリー",
			"Frame Count":       "フレーム数",
			"animation":         "アニメーション",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	for _, want := range []string{"# 変換サマリー", "| フレーム数 | 90 |", "webp (アニメーション)"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected translated %q", want)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "Generated by vidanim v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "summary of " + s.Output.Path }), fs)

	if err := w.Write("reports/run.md", sampleSummary()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, ok := fs.GetFile("reports/run.md")
	if !ok || string(data) != "summary of out.webp" {
		t.Errorf("written = %q (exists %v)", data, ok)
	}
}

func TestWriter_Stdout(t *testing.T) {
	fs := mocks.NewFileSystem()
	var out strings.Builder
	w := NewWriter(FormatFunc(func(s *Summary) string { return "# run\n" }), fs).WithStdout(&out)

	if err := w.Write(StdoutPath, sampleSummary()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.String() != "# run\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if files := fs.GetAllFiles(); len(files) != 0 {
		t.Errorf("no file expected, got %v", files)
	}
}

func TestWriter_Error(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
	w := NewWriter(FormatFunc(func(*Summary) string { return "x" }), fs)

	err := w.Write("run.md", sampleSummary())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Write error = %v", err)
	}
}
