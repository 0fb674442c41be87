// Package logging builds the service logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"

	"github.com/nrfta/tubepage/internal/config"
)

// Key constants
const (
	VersionKey   = "version"
	RequestIDKey = "request_id"
	ListingKey   = "listing"
)

// New creates a logger writing to stdout.
func New(c *config.Logger) (*logrus.Logger, error) {
	return NewWithOutput(c, os.Stdout)
}

// NewWithOutput creates a logger writing to w.
func NewWithOutput(c *config.Logger, w io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)

	level := logrus.InfoLevel
	if c != nil && c.Level != "" {
		parsed, err := logrus.ParseLevel(c.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "logger: bad level %q", c.Level)
		}
		level = parsed
	}
	l.SetLevel(level)

	format := "json"
	if c != nil && c.Format != "" {
		format = strings.ToLower(c.Format)
	}
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("logger: unknown format %q", c.Format)
	}

	return l, nil
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
