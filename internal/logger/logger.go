// Package logger provides a thin wrapper around zerolog.Logger with the
// constructors this tool needs: a stderr logger for one-shot commands and
// a file-backed logger for interactive sessions, where the terminal
// belongs to the TUI.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger writing to w with a "role" field for
// filtering, e.g. "cli" or "tui".
func New(w io.Writer, role string) *Logger {
	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// NewStderr returns a logger for non-interactive command runs.
func NewStderr(role string) *Logger {
	return New(os.Stderr, role)
}

// NewSession returns a logger appending to tweetdub.log next to the
// executable. Falls back to stderr when the file cannot be opened, so
// interactive sessions never lose log output entirely.
func NewSession(role string) *Logger {
	execPath, err := os.Executable()
	if err != nil {
		return NewStderr(role)
	}
	logPath := filepath.Join(filepath.Dir(execPath), "tweetdub.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return NewStderr(role)
	}
	return New(f, role)
}

// Nop returns a logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
