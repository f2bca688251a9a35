package ports

import "fmt"

// LogLevel is the severity of a log message.
type LogLevel int

const (
	// LevelDebug covers per-frame and native library details.
	LevelDebug LogLevel = iota
	// LevelInfo covers run-level progress.
	LevelInfo
	// LevelWarn covers problems that do not stop the run.
	LevelWarn
	// LevelError covers failures of a worker or the run.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

// String returns the lowercase name of the level.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name. Unknown names yield LevelInfo and an error.
func ParseLogLevel(s string) (LogLevel, error) {
	for i, name := range levelNames {
		if name == s {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("ports: unknown log level %q", s)
}

// Logger abstracts logging. Messages are translation keys passed through
// go-l10n with args as format arguments.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with [component].
	WithComponent(component string) Logger
}
