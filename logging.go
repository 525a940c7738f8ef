package corvid

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingOptions configures where and how corvid writes its structured
// log.
type LoggingOptions struct {
	// Level is the minimum level that reaches the output. The zero value
	// is zerolog.DebugLevel, so every message is emitted unless a
	// stricter level is set explicitly.
	Level zerolog.Level

	// Writer receives log output in addition to stdout when set. Pass a
	// *lumberjack.Logger (via NewRotatingWriter) to get size/age-based
	// rotation for long-running processes.
	Writer io.Writer

	// Pretty renders console-friendly output instead of JSON lines; use
	// for local development only.
	Pretty bool
}

// NewRotatingWriter builds a lumberjack.Logger that rotates the file at
// path once it exceeds maxSizeMB, keeping at most maxBackups old files.
func NewRotatingWriter(path string, maxSizeMB, maxBackups, maxAgeDays int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

func newLogger(opts LoggingOptions) zerolog.Logger {
	var out io.Writer = os.Stdout

	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	if opts.Writer != nil {
		out = zerolog.MultiLevelWriter(out, opts.Writer)
	}

	return zerolog.New(out).Level(opts.Level).With().Timestamp().Logger()
}
