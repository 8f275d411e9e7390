// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"strings"
)

// levelDisabled is above every slog level, so setting it silences all output.
const levelDisabled = slog.Level(99)

// Level controls the minimum severity emitted by all loggers in the process.
var Level = &levelVar{v: &slog.LevelVar{}}

type levelVar struct {
	v *slog.LevelVar
}

func (l *levelVar) Enabled(level slog.Level) bool {
	return level >= l.v.Level()
}

func (l *levelVar) Set(level slog.Level) {
	l.v.Set(level)
}

// SetByName sets the level from its string name. Unknown names leave the
// level unchanged.
func (l *levelVar) SetByName(name string) {
	switch strings.ToLower(name) {
	case "err", "error":
		l.v.Set(slog.LevelError)
	case "warn", "warning":
		l.v.Set(slog.LevelWarn)
	case "info":
		l.v.Set(slog.LevelInfo)
	case "debug":
		l.v.Set(slog.LevelDebug)
	case "off", "disable":
		l.v.Set(levelDisabled)
	}
}
