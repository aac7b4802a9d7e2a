package logging

import (
	"io"
	"sync"

	"github.com/musiclib/libsync/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DetailTimeFormat is the timestamp layout of detail stream lines.
const DetailTimeFormat = "2006-01-02 15:04:05"

// NewDetailLogger returns the logger behind the run's detail stream. Every
// line is written as "<timestamp> <message>" without colour, regardless of
// the global diagnostic level.
func NewDetailLogger(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: DetailTimeFormat,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// NewConsoleLogger returns the logger behind the run's console stream. Lines
// are written bare, one message per line. Write failures are swallowed and
// reported once to the diagnostic log.
func NewConsoleLogger(w io.Writer, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        &consoleWriter{out: w},
		NoColor:    noColor,
		PartsOrder: []string{zerolog.MessageFieldName},
	}
	return zerolog.New(out)
}

// Line writes msg through logger without a level, so stream output is never
// filtered by SetupLogger's verbosity.
func Line(logger zerolog.Logger, msg string) {
	logger.Log().Msg(msg)
}

// consoleWriter drops write errors so a lost console never fails a run.
type consoleWriter struct {
	out    io.Writer
	failed sync.Once
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(p); err != nil {
		w.failed.Do(func() {
			log.Warn().Err(errors.Wrap(err, errors.ErrConsoleWrite, "console write failed")).
				Msg("Console output lost, further failures are ignored")
		})
	}
	return len(p), nil
}
