package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ledgerbot/internal/config"
)

var (
	writerMu sync.Mutex
	writer   io.Writer = os.Stdout
)

// Init configures the global zerolog logger. Called once at process start;
// later log output (including the ops request logger) goes through Writer.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		if w, err := newCappedFileWriter(cfg.File, cfg.MaxMB); err == nil {
			out = w
		}
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	writerMu.Lock()
	writer = out
	writerMu.Unlock()

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// Writer returns the sink Init selected, for loggers built outside zerolog.
func Writer() io.Writer {
	writerMu.Lock()
	defer writerMu.Unlock()
	return writer
}
