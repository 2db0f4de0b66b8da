// Package answer defines the answer generation interface, the per-query
// context it consumes, and the output content policy.
package answer

import (
	"context"
	"time"
)

// GoalStatus is the display status of an IEP goal.
type GoalStatus string

const (
	// StatusNotStarted indicates work on the goal has not begun.
	StatusNotStarted GoalStatus = "Not Started"

	// StatusInProgress indicates the goal is actively being worked.
	StatusInProgress GoalStatus = "In Progress"

	// StatusCompleted indicates the goal has been met.
	StatusCompleted GoalStatus = "Completed"
)

// Goal is the per-query view of an IEP goal.
type Goal struct {
	// Title is the short name of the goal.
	Title string

	// Description is the longer free-text description.
	Description string

	// Status is the display status of the goal.
	Status GoalStatus

	// Progress is the completion percentage (0-100).
	Progress int

	// DueDate is when the goal is due (nil if no due date is set).
	DueDate *time.Time
}

// Context is the bounded snapshot of a user's data assembled for a single
// query.
//
// A Context is constructed fresh on every query, never persisted, and owned
// exclusively by the request that built it.
type Context struct {
	// Goals is the user's goals in storage order.
	Goals []Goal

	// DocumentsCount is the number of documents the user has stored.
	DocumentsCount int

	// UpcomingEvents is the number of events strictly after the query
	// instant.
	UpcomingEvents int

	// TotalEvents is the total number of events on record.
	TotalEvents int
}

// Generator produces a natural-language answer for a question about a user's
// stored data.
//
// Implementations must treat qctx as read-only. The default rule-based
// implementation (package rules) is a pure function; LLM-backed
// implementations may perform network I/O and should honor ctx cancellation.
type Generator interface {
	// Generate returns the answer text for the given prompt and context.
	Generate(ctx context.Context, prompt string, qctx *Context) (string, error)
}
