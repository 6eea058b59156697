// Package notify carries user-facing success/warning/failure messages out of
// the client layer. The admin CLI surfaces them on stderr; tests capture them
// with a Recorder.
package notify

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier is the side channel for operator-facing notifications emitted
// alongside client operations.
type Notifier interface {
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Logger emits notifications through a zerolog logger.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a zerolog-backed notifier.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Success(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Success(string, ...any) {}
func (Discard) Warn(string, ...any)    {}
func (Discard) Error(string, ...any)   {}

// Level classifies a recorded notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarn
	LevelError
)

// Notification is a single recorded message.
type Notification struct {
	Level   Level
	Message string
}

// Recorder captures notifications in memory for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *Recorder) Success(format string, args ...any) {
	r.record(LevelSuccess, format, args...)
}

func (r *Recorder) Warn(format string, args ...any) {
	r.record(LevelWarn, format, args...)
}

func (r *Recorder) Error(format string, args ...any) {
	r.record(LevelError, format, args...)
}

func (r *Recorder) record(level Level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// All returns a copy of the recorded notifications in emission order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification, or nil when none were emitted.
func (r *Recorder) Last() *Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return nil
	}
	n := r.notifications[len(r.notifications)-1]
	return &n
}
