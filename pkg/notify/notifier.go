// Package notify defines the advocate notification collaborator invoked when
// a shared memory is created.
//
// Delivery (email in the hosted product) is an external concern; this package
// only fixes the interface and provides a logging implementation for local
// use. Notification failure is always best-effort and never affects the
// answer response.
package notify

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Notification describes a newly shared (question, answer) pair.
type Notification struct {
	// UserID is the user who shared the question.
	UserID string

	// Question is the question text as submitted.
	Question string

	// Answer is the generated answer text.
	Answer string

	// SharedAt is when the pair was persisted.
	SharedAt time.Time
}

// Notifier is invoked after a shared memory has been persisted.
type Notifier interface {
	// SharedMemoryCreated delivers the notification. Errors are logged by
	// the caller and never surfaced to the end user.
	SharedMemoryCreated(ctx context.Context, n *Notification) error
}

// Noop is a Notifier that does nothing.
type Noop struct{}

// SharedMemoryCreated implements Notifier.
func (Noop) SharedMemoryCreated(context.Context, *Notification) error {
	return nil
}

// LogNotifier writes notifications to a structured logger. It stands in for
// the hosted product's email channel during local development.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SharedMemoryCreated implements Notifier.
func (n *LogNotifier) SharedMemoryCreated(_ context.Context, notification *Notification) error {
	n.logger.Info("advocate notification",
		"user_id", notification.UserID,
		"question", notification.Question,
		"shared_at", notification.SharedAt.Format(time.RFC3339))
	return nil
}
