// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup sets the level and output of the standard logger. Logs go to file
// when one is given. Otherwise they go to stderr, unless tui is set, in
// which case they are discarded so they cannot tear the alternate screen.
// The returned closer releases the log file.
func Setup(level logrus.Level, file string, tui bool) (io.Closer, error) {
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})

	switch {
	case file != "":
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open log file %s", file)
		}
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			DisableColors:   true,
		})
		logrus.SetOutput(f)
		return f, nil
	case tui:
		logrus.SetOutput(io.Discard)
	default:
		logrus.SetOutput(os.Stderr)
		if term.IsTerminal(os.Stderr.Fd()) {
			logrus.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: time.Kitchen,
			})
		}
	}
	return nopCloser{}, nil
}
