package core

import "time"

// SharedMemory is a persisted (question, answer) pair flagged for advocate
// visibility.
//
// A shared memory is immutable once created: there is no update operation,
// and deletion (if any) belongs to an external collaborator.
type SharedMemory struct {
	// ID is the unique identifier, assigned at creation.
	ID int64 `json:"id"`

	// UserID identifies the user who asked the question.
	UserID string `json:"userId"`

	// Question is the free-text question as submitted.
	Question string `json:"question"`

	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// SharedAt is the server-assigned persistence timestamp.
	SharedAt time.Time `json:"sharedAt"`
}

// Sharing describes the outcome of the sharing branch of a query.
//
// Sharing is best-effort: a failed store write is reported here rather than
// failing the query.
type Sharing struct {
	// Requested reports whether the caller asked to share the answer.
	Requested bool `json:"requested"`

	// Successful reports whether a shared memory row was persisted.
	Successful bool `json:"successful"`

	// DuplicateDetected reports whether the question was suppressed as a
	// duplicate within the window.
	DuplicateDetected bool `json:"duplicateDetected"`

	// Memory is the persisted record, nil unless Successful is true.
	Memory *SharedMemory `json:"sharedMemory"`
}

// QueryResult is the structured outcome of one pipeline invocation.
//
// The result always contains the generated answer; the sharing side effect is
// reported as a status field, never as an error that drops the answer.
type QueryResult struct {
	// Answer is the generated answer text.
	Answer string `json:"aiAnswer"`

	// Validation is the output content policy verdict for Answer.
	Validation Validation `json:"validation"`

	// Sharing is the outcome of the sharing branch.
	Sharing Sharing `json:"sharing"`
}

// Validation mirrors answer.Validation for the public result type.
type Validation struct {
	// IsValid reports whether the answer passed the content policy.
	IsValid bool `json:"isValid"`

	// Reason describes the failure. Empty when IsValid is true.
	Reason string `json:"reason,omitempty"`
}
