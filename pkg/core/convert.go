package core

import (
	"time"

	"github.com/edvocate/memshare-go/pkg/answer"
	"github.com/edvocate/memshare-go/pkg/storage"
)

// buildContext assembles the per-query answer.Context from storage rows.
//
// "Upcoming" means the event date is strictly after now.
func buildContext(goals []*storage.Goal, docs []*storage.Document, events []*storage.Event, now time.Time) *answer.Context {
	qctx := &answer.Context{
		Goals:          make([]answer.Goal, 0, len(goals)),
		DocumentsCount: len(docs),
		TotalEvents:    len(events),
	}

	for _, goal := range goals {
		qctx.Goals = append(qctx.Goals, answer.Goal{
			Title:       goal.Title,
			Description: goal.Description,
			Status:      answer.GoalStatus(goal.Status),
			Progress:    goal.Progress,
			DueDate:     goal.DueDate,
		})
	}

	for _, event := range events {
		if event.Date.After(now) {
			qctx.UpcomingEvents++
		}
	}

	return qctx
}

// toSharedMemory converts a storage row to the public result type.
func toSharedMemory(row *storage.SharedMemory) *SharedMemory {
	if row == nil {
		return nil
	}
	return &SharedMemory{
		ID:       row.ID,
		UserID:   row.UserID,
		Question: row.Question,
		Answer:   row.Answer,
		SharedAt: row.SharedAt,
	}
}

// toValidation converts the policy verdict to the public result type.
func toValidation(v answer.Validation) Validation {
	return Validation{
		IsValid: v.IsValid,
		Reason:  v.Reason,
	}
}
