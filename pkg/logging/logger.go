package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates an hclog logger with the writer's standard settings:
// UTC ISO timestamps, JSON output when APPHOST_JSON_LOG=1, and a line prefix
// for human-readable output.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("APPHOST_JSON_LOG") == "1"
	if !jsonFormat {
		output = NewPrefixWriter("🧰 ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel resolves the log level: explicit value first, then the
// APPHOST_WRITER_LOG_LEVEL and APPHOST_LOG_LEVEL environment variables,
// defaulting to info.
func GetLogLevel(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if level := os.Getenv("APPHOST_WRITER_LOG_LEVEL"); level != "" {
		return level
	}
	if level := os.Getenv("APPHOST_LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
