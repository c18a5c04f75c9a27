// Package file provides a logging backend that appends logfmt records to
// a file. The extract command uses it for its verbose debug.log.
package file

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// FileLogger implements LoggerInstance on top of an open file.
type FileLogger struct {
	logger *log.Logger
	f      *os.File
	once   sync.Once
}

// FileLoggerParams contains configuration for creating a FileLogger.
type FileLoggerParams struct {
	Path string
	// Truncate starts a fresh file instead of appending.
	Truncate bool
	Level    log.Level
}

// NewFileLogger opens (or creates) the file at params.Path.
func NewFileLogger(params FileLoggerParams) (*FileLogger, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if params.Truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(params.Path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", params.Path, err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           params.Level,
		Formatter:       log.LogfmtFormatter,
	})
	return &FileLogger{logger: logger, f: f}, nil
}

func (l *FileLogger) Log(message string, keyvals ...any) {
	l.logger.Print(message, keyvals...)
}

func (l *FileLogger) Info(message string, keyvals ...any) {
	l.logger.Info(message, keyvals...)
}

func (l *FileLogger) Warn(message string, keyvals ...any) {
	l.logger.Warn(message, keyvals...)
}

func (l *FileLogger) Error(message string, keyvals ...any) {
	l.logger.Error(message, keyvals...)
}

func (l *FileLogger) Debug(message string, keyvals ...any) {
	l.logger.Debug(message, keyvals...)
}

func (l *FileLogger) Fatal(message string, keyvals ...any) {
	l.logger.Fatal(message, keyvals...)
}

// Close flushes and closes the underlying file. It is safe to call more
// than once.
func (l *FileLogger) Close() error {
	var err error
	l.once.Do(func() {
		err = l.f.Close()
	})
	return err
}
