// Package logger is the leveled logging interface used by the store and the
// loopback service.
package logger

import (
	"io"
	"log"
)

type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	l *log.Logger
}

// New returns a Logger writing through the standard log package.
func New() Logger { return &stdLogger{l: log.Default()} }

// NewWriter returns a Logger writing to w with the standard log flags.
func NewWriter(w io.Writer) Logger { return &stdLogger{l: log.New(w, "", log.LstdFlags)} }

func (s *stdLogger) Infof(format string, v ...any)  { s.l.Printf("[INFO] "+format, v...) }
func (s *stdLogger) Errorf(format string, v ...any) { s.l.Printf("[ERROR] "+format, v...) }

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
