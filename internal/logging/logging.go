package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Unknown levels fall back to
// info; format "console" switches to human-readable output.
func Setup(level, format string) {
	Configure(os.Stdout, level, format)
}

// Configure is Setup with an explicit writer.
func Configure(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
