// Package obslog builds the module's structured logger. Grounded on the
// teacher's log/slog usage throughout internal/engine (e.g.
// simulation.go's "daily report" calls) — one key/value logger, no
// custom logging abstraction layered on top of slog.
package obslog

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// New builds a slog.Logger writing to os.Stdout. When stdout is a
// terminal, a lightly formatted text handler is used; otherwise JSON,
// so piped/production output stays machine-parseable. This mirrors the
// ambient terminal-detection the teacher's go.mod pulled in
// (mattn/go-isatty) but never called.
func New(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
