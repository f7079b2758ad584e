package utils

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gookit/color"
	"golang.org/x/term"
)

var (
	infoStyle  = color.Style{color.FgGreen}
	warnStyle  = color.Style{color.FgYellow, color.OpBold}
	errorStyle = color.Style{color.FgRed, color.OpBold}
)

// Logger is a level-prefixed wrapper around log.Logger.
type Logger struct {
	file    *os.File
	logger  *log.Logger
	colored bool
}

// NewLogger logs to filePath, or to stderr when filePath is empty.
// Level tags are colored only when writing to a terminal.
func NewLogger(filePath string) (*Logger, error) {
	if filePath == "" {
		return NewWriterLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd()))), nil
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriterLogger(file, false)
	l.file = file
	return l, nil
}

// NewWriterLogger logs to w.
func NewWriterLogger(w io.Writer, colored bool) *Logger {
	return &Logger{
		logger:  log.New(w, "", log.LstdFlags),
		colored: colored,
	}
}

func (l *Logger) tag(style color.Style, level string) string {
	if l.colored {
		return style.Sprint(level)
	}
	return level
}

// Infof logs an info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Printf("%s %s", l.tag(infoStyle, "INFO:"), fmt.Sprintf(format, args...))
}

// Warnf logs a warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Printf("%s %s", l.tag(warnStyle, "WARN:"), fmt.Sprintf(format, args...))
}

// Errorf logs an error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Printf("%s %s", l.tag(errorStyle, "ERROR:"), fmt.Sprintf(format, args...))
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
