// Package logging configures the process-wide zerolog logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup sets the global level and output. Logs go to w; when w is a terminal
// they are rendered with the console writer instead of JSON. The returned
// logger is also installed as the default for log.Ctx.
func Setup(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger, nil
}

// WithContext attaches the global logger to ctx.
func WithContext(ctx context.Context) context.Context {
	return log.Logger.WithContext(ctx)
}
