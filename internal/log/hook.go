package log

import (
	"bufio"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// hookMu ensures all io operations are synced. Always held on exported
// functions.
var hookMu sync.Mutex

// LoggerHook extends logrus.Hook with Reopen and GetLogDest.
type LoggerHook interface {
	logrus.Hook
	Reopen() error
	GetLogDest() string
}

// LogrusHook writes formatted entries to a destination that can be closed
// and reopened in place, so log rotation (e.g. logrotate(8)) doesn't leave
// the process writing to an unlinked file.
type LogrusHook struct {
	w     io.Writer
	fd    *os.File
	fname string

	plainTxtFormatter *logrus.TextFormatter

	mu sync.Mutex
}

// NewLogrusHook creates a new hook. dest can be a file name or one of
// "stderr", "stdout", "off".
func NewLogrusHook(dest string) (LoggerHook, error) {
	hookMu.Lock()
	defer hookMu.Unlock()
	hook := LogrusHook{fname: dest}
	err := hook.setup(dest)
	return &hook, err
}

type OutputOption int

const (
	OutputStderr OutputOption = 1 + iota
	OutputStdout
	OutputOff
	OutputNull
	OutputFile
)

var outputOptions = [...]string{"stderr", "stdout", "off", "", "file"}

func (o OutputOption) String() string {
	return outputOptions[o-1]
}

func parseOutputOption(str string) OutputOption {
	switch str {
	case "stderr":
		return OutputStderr
	case "stdout":
		return OutputStdout
	case "off":
		return OutputOff
	case "":
		return OutputNull
	}
	return OutputFile
}

// setup sets the hook's writer and file descriptor, assuming hook.fd is
// closed and nil.
func (hook *LogrusHook) setup(dest string) error {
	out := parseOutputOption(dest)
	switch out {
	case OutputNull, OutputStderr:
		hook.w = os.Stderr
	case OutputStdout:
		hook.w = os.Stdout
	case OutputOff:
		hook.w = ioutil.Discard
	default:
		if _, err := os.Stat(dest); err == nil {
			if err := hook.openAppend(dest); err != nil {
				return err
			}
		} else if err := hook.openCreate(dest); err != nil {
			return err
		}
	}
	if hook.fd != nil {
		hook.plainTxtFormatter = &logrus.TextFormatter{DisableColors: true}
	}
	return nil
}

// openAppend opens dest for appending, falling back to stderr on failure.
func (hook *LogrusHook) openAppend(dest string) error {
	fd, err := os.OpenFile(dest, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		hook.w = os.Stderr
		hook.fd = nil
		return err
	}
	hook.w = bufio.NewWriter(fd)
	hook.fd = fd
	return nil
}

// openCreate creates dest for writing, falling back to stderr on failure.
func (hook *LogrusHook) openCreate(dest string) error {
	fd, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		hook.w = os.Stderr
		hook.fd = nil
		return err
	}
	hook.w = bufio.NewWriter(fd)
	hook.fd = fd
	return nil
}

// Fire implements logrus.Hook. It disables color formatting when writing to
// a file.
func (hook *LogrusHook) Fire(entry *logrus.Entry) error {
	hookMu.Lock()
	defer hookMu.Unlock()
	if hook.fd != nil {
		old := entry.Logger.Formatter
		defer func() { entry.Logger.Formatter = old }()
		entry.Logger.Formatter = hook.plainTxtFormatter
	}
	line, err := entry.String()
	if err != nil {
		return err
	}
	if _, err := io.Copy(hook.w, strings.NewReader(line)); err != nil {
		return err
	}
	if wb, ok := hook.w.(*bufio.Writer); ok {
		if err := wb.Flush(); err != nil {
			return err
		}
		if hook.fd != nil {
			return hook.fd.Sync()
		}
	}
	return nil
}

func (hook *LogrusHook) GetLogDest() string {
	hookMu.Lock()
	defer hookMu.Unlock()
	return hook.fname
}

// Levels implements logrus.Hook.
func (hook *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Reopen closes and re-opens the log file descriptor.
func (hook *LogrusHook) Reopen() error {
	hookMu.Lock()
	defer hookMu.Unlock()
	if hook.fd == nil {
		return nil
	}
	if err := hook.fd.Close(); err != nil {
		return err
	}
	if _, err := os.Stat(hook.fname); err != nil {
		return hook.openCreate(hook.fname)
	}
	return hook.openAppend(hook.fname)
}
