// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var isTerminal = isatty.IsTerminal(os.Stderr.Fd())

func newHandler() slog.Handler {
	if isTerminal {
		return tint.NewHandler(os.Stderr, &tint.Options{
			NoColor:   runtime.GOOS == "windows",
			AddSource: true,
			Level:     Level.v,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				switch a.Key {
				case slog.TimeKey:
					return slog.Attr{}
				case slog.SourceKey:
					if !Level.Enabled(slog.LevelDebug) {
						return slog.Attr{}
					}
				}
				return a
			},
		})
	}
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: Level.v,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func fixCallDepth(depth int, h slog.Handler) slog.Handler {
	if v, ok := h.(*depthHandler); ok {
		h = v.next
	}
	return &depthHandler{depth: depth, next: h}
}

// depthHandler rewrites the record PC so source attribution points at the
// caller of this package, not at the wrapper methods.
type depthHandler struct {
	depth int
	next  slog.Handler
}

func (h *depthHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *depthHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fixCallDepth(h.depth, h.next.WithAttrs(attrs))
}

func (h *depthHandler) WithGroup(name string) slog.Handler {
	return fixCallDepth(h.depth, h.next.WithGroup(name))
}

func (h *depthHandler) Handle(ctx context.Context, r slog.Record) error {
	// https://pkg.go.dev/log/slog#example-package-Wrapping
	var pcs [1]uintptr
	// skip Callers and this function
	runtime.Callers(h.depth+2, pcs[:])
	r.PC = pcs[0]

	return h.next.Handle(ctx, r)
}
