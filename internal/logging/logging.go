// Package logging provides the shared application logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = logrus.New()

// SetupBaseLogger configures the logger for stderr output. It is called
// once, before anything else logs.
func SetupBaseLogger() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)
}

// SetLevel sets the logging level from its string name.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return nil
}

// ConfigureLogOutput redirects log output to a rotated file. An empty path
// keeps the stderr output.
func ConfigureLogOutput(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logger.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	return nil
}

// Logger exposes the underlying logrus logger.
func Logger() *logrus.Logger { return logger }

// WithError returns an entry with the error field set.
func WithError(err error) *logrus.Entry { return logger.WithError(err) }

// WithField returns an entry with a single field set.
func WithField(key string, value any) *logrus.Entry { return logger.WithField(key, value) }

func Tracef(format string, args ...any) { logger.Tracef(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Fatalf(format string, args ...any) { logger.Fatalf(format, args...) }
