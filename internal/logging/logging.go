package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Service string
	Env     string
	Level   string
	Format  string // json | text
	Out     io.Writer
}

// New builds the process logger. Every entry carries service and env fields.
func New(opts Options) *logrus.Entry {
	l := logrus.New()
	l.SetLevel(parseLevel(opts.Level))
	if opts.Out != nil {
		l.SetOutput(opts.Out)
	} else {
		l.SetOutput(os.Stdout)
	}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l.WithFields(logrus.Fields{
		"service": opts.Service,
		"env":     opts.Env,
	})
}

func parseLevel(lvl string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
