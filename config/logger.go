package config

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a text logger with full timestamps writing to stdout.
// An unknown level falls back to info and logs a warning.
func NewLogger(level string) *logrus.Logger {
	return newLogger(os.Stdout, level)
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		name = "info"
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
