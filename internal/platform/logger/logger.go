package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = out
	l.Level = logrus.InfoLevel
	l.Formatter = jsonFormatter()
	return l
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
}

// Setup configures the shared logger. format is "json" (default) or "text".
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "json":
		log.SetFormatter(jsonFormatter())
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// SetOutput redirects the shared logger, mainly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// L exposes the underlying logrus logger for libraries that want one.
func L() *logrus.Logger {
	return log
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

func Debug(msg string, v ...interface{}) {
	log.Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	log.Infof(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	log.Warnf(msg, v...)
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		log.WithError(err).Errorf(msg, v...)
	} else {
		log.Errorf(msg, v...)
	}
}
