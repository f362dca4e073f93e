package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger configures a zerolog logger writing to out using the provided
// format and level. "console" and "text" produce human-readable lines, any
// other format produces JSON. Unknown levels fall back to info.
func NewLogger(out io.Writer, format, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
