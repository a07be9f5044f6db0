// Package log configures the process wide logrus logger.
//
// Diagnostics go to stderr (and optionally a rotating file) so that stdout
// stays reserved for the harness console output.
package log

import (
	"io"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/theQRL/interop/config"
)

var rotating *lumberjack.Logger

// Configure applies the log section of the user config to the standard logger.
func Configure(c *config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	var out io.Writer = colorable.NewColorableStderr()
	if c.File != "" {
		rotating = &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
		}
		out = io.MultiWriter(out, rotating)
	}
	logrus.SetOutput(out)
	return nil
}

// Close flushes and closes the rotating log file, if any.
func Close() {
	if rotating == nil {
		return
	}
	if err := rotating.Close(); err != nil {
		logrus.Warn("Failed to close log file ", err)
	}
	rotating = nil
}

// New returns an entry tagged with the given component prefix.
func New(prefix string) *logrus.Entry {
	return logrus.WithField("prefix", prefix)
}
