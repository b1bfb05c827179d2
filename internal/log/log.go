// Package log provides the structured logger used by the SMTP session
// engine. It wraps logrus with a reopenable destination hook, following the
// same dest-string convention ("stdout", "stderr", "off", or a file path)
// used throughout the rest of the ambient stack this module was adapted
// from.
package log

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface the session engine depends on.
type Logger interface {
	logrus.FieldLogger
	WithHost(host string) *logrus.Entry
	Reopen() error
	GetLogDest() string
	SetLevel(level string)
	GetLevel() string
	IsDebug() bool
}

// HookedLogger implements Logger. It's a logrus logger wrapper that holds
// an instance of a reopenable destination hook.
type HookedLogger struct {
	*logrus.Logger

	h LoggerHook
}

type loggerCache map[string]Logger

// loggers caches loggers by destination so repeated New calls for the same
// dest return the same instance.
var loggers struct {
	cache loggerCache
	sync.Mutex
}

// New returns a Logger writing to dest. dest can be a path to a file, or
// one of "off", "stdout", "stderr". Loggers are cached by dest: a second
// call with the same dest returns the previously created Logger.
func New(dest string) (Logger, error) {
	loggers.Lock()
	defer loggers.Unlock()
	if loggers.cache == nil {
		loggers.cache = make(loggerCache, 1)
	} else if l, ok := loggers.cache[dest]; ok {
		return l, nil
	}

	logger := logrus.New()
	l := &HookedLogger{Logger: logger}
	loggers.cache[dest] = l

	h, err := NewLogrusHook(dest)
	if err != nil {
		return l, err
	}
	logger.Hooks.Add(h)
	l.h = h

	return l, nil
}

func (l *HookedLogger) IsDebug() bool {
	return l.GetLevel() == logrus.DebugLevel.String()
}

// SetLevel sets the log level, ignoring an unrecognised level string.
func (l *HookedLogger) SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	l.Level = lvl
}

func (l *HookedLogger) GetLevel() string {
	return l.Level.String()
}

// Reopen closes and reopens the log destination, for use after log
// rotation.
func (l *HookedLogger) Reopen() error {
	return l.h.Reopen()
}

func (l *HookedLogger) GetLogDest() string {
	return l.h.GetLogDest()
}

// WithHost extends logrus with the MX/A-record candidate currently in use,
// in place of go-guerrilla's WithConn (which logs an inbound client's
// remote address; this library only ever dials out).
func (l *HookedLogger) WithHost(host string) *logrus.Entry {
	if host == "" {
		host = "unknown"
	}
	return l.WithField("host", host)
}
