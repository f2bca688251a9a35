package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithInput(InputInfo{Path: "in.mp4", Codec: "h264", Width: 640, Height: 360, Frames: 90}).
		WithSetting("quality", "80").
		WithSetting("method", "").
		WithSetting("preset", "photo").
		WithOutput(OutputInfo{Path: "out.webp", Format: "webp", Mode: "animation", FileSize: 2048, Succeeded: true}).
		WithWorkers("Finished without errors.", "Errored: boom").
		Build()

	if summary.Input.Path != "in.mp4" || summary.Input.Frames != 90 {
		t.Errorf("Input = %+v", summary.Input)
	}
	if len(summary.Settings) != 2 {
		t.Fatalf("expected empty settings to be skipped, got %v", summary.Settings)
	}
	if summary.Settings[1] != (Setting{Name: "preset", Value: "photo"}) {
		t.Errorf("Settings keep insertion order, got %v", summary.Settings)
	}
	if summary.Output.Path != "out.webp" || !summary.Output.Succeeded {
		t.Errorf("Output = %+v", summary.Output)
	}
	if summary.Decoder != "Finished without errors." || summary.Encoder != "Errored: boom" {
		t.Errorf("workers = %q, %q", summary.Decoder, summary.Encoder)
	}
}
