package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the JSON logger used by the server. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	return newWith(os.Stdout, &logrus.JSONFormatter{}, level)
}

// NewText builds a human-readable logger for interactive tools.
func NewText(w io.Writer, level string) *logrus.Logger {
	return newWith(w, &logrus.TextFormatter{FullTimestamp: true}, level)
}

func newWith(w io.Writer, f logrus.Formatter, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(f)

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		l.SetLevel(logrus.TraceLevel)
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
