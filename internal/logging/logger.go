// Package logging configures the process-wide logrus logger.
//
// Logs go to stderr so that stdout stays free for the MCP protocol and for
// command output.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing text lines to w at the given level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(ParseLevel(level))
	return log
}

// NewStderr returns a logger writing to stderr.
func NewStderr(level string) *logrus.Logger {
	return New(os.Stderr, level)
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithRequest returns an entry tagged with a request ID.
func WithRequest(log logrus.FieldLogger, id string) *logrus.Entry {
	return log.WithField("request_id", id)
}
