// SPDX-License-Identifier: GPL-3.0-or-later

// Package logger is a thin slog front end: leveled formatted logging,
// colored terminal output and a package default for code without its own
// logger instance.
package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// New creates a Logger writing to stderr. Output is colored when stderr is
// a terminal and plain logfmt otherwise.
func New() *Logger {
	// skip 2 slog pkg calls, 3 this pkg calls
	return &Logger{sl: slog.New(fixCallDepth(5, newHandler()))}
}

// Logger wraps slog.Logger. A nil Logger is usable and falls back to the
// package default.
type Logger struct {
	sl *slog.Logger
}

func (l *Logger) Error(a ...any)   { l.log(slog.LevelError, fmt.Sprint(a...)) }
func (l *Logger) Warning(a ...any) { l.log(slog.LevelWarn, fmt.Sprint(a...)) }
func (l *Logger) Info(a ...any)    { l.log(slog.LevelInfo, fmt.Sprint(a...)) }
func (l *Logger) Debug(a ...any)   { l.log(slog.LevelDebug, fmt.Sprint(a...)) }

func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, fmt.Sprintf(format, a...)) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)    { l.log(slog.LevelInfo, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, fmt.Sprintf(format, a...)) }

// With returns a Logger that includes the given attributes in every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.sl == nil {
		return New().With(args...)
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) log(level slog.Level, msg string) {
	if l == nil || l.sl == nil {
		defaultLogger.log(level, msg)
		return
	}
	l.sl.Log(context.Background(), level, msg)
}
