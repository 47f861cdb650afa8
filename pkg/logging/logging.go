// Package logging holds the process-wide logrus logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Packages log through it with WithFields.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if lvl := os.Getenv("STORYHUB_LOG_LEVEL"); lvl != "" {
		_ = SetLevel(lvl)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// SetLevel parses a level name such as "debug" or "warn" and applies it.
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

// UseJSON switches the shared logger to JSON output.
func UseJSON() {
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Debug reports whether debug logging is enabled.
func Debug() bool {
	return Log.IsLevelEnabled(logrus.DebugLevel)
}
