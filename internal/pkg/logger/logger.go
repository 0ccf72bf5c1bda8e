package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger: JSON lines in prod-like environments, text otherwise.
func New(appEnv, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	env := strings.ToLower(strings.TrimSpace(appEnv))
	if env == "prod" || env == "production" || env == "release" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
