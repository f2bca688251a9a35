package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/vidanim/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   ports.LogLevel
		wantOut []string
		wantErr []string
	}{
		{"debug shows all", ports.LevelDebug, []string{"d", "i"}, []string{"w", "e"}},
		{"info hides debug", ports.LevelInfo, []string{"i"}, []string{"w", "e"}},
		{"warn", ports.LevelWarn, nil, []string{"w", "e"}},
		{"error", ports.LevelError, nil, []string{"e"}},
		{"quiet", ports.LevelQuiet, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := NewConsoleWriters(tt.level, &out, &errOut)
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			if got := lines(out.String()); !equal(got, tt.wantOut) {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
			if got := lines(errOut.String()); !equal(got, tt.wantErr) {
				t.Errorf("stderr = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	l := NewConsoleWriters(ports.LevelInfo, &out, &out).WithComponent("Decoder")
	l.Info("sample %d", 3)

	if got := strings.TrimSpace(out.String()); got != "[Decoder] sample 3" {
		t.Errorf("output = %q", got)
	}
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
