package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edvocate/memshare-go/pkg/core"
)

// memoryQueryRequest is the body of POST /api/test-memory-query.
type memoryQueryRequest struct {
	UserID string `json:"userId"`
	Prompt string `json:"prompt"`
	Share  bool   `json:"share"`
}

// sharedMemoryView is the trimmed shared-memory shape returned in responses:
// the answer text is already present at the top level.
type sharedMemoryView struct {
	ID       int64  `json:"id"`
	UserID   string `json:"userId"`
	Question string `json:"question"`
	SharedAt string `json:"sharedAt"`
}

// sharingView is the sharing status block of the query response.
type sharingView struct {
	Requested         bool              `json:"requested"`
	Successful        bool              `json:"successful"`
	DuplicateDetected bool              `json:"duplicateDetected"`
	SharedMemory      *sharedMemoryView `json:"sharedMemory"`
}

// testInfoView is the diagnostic footer of the query response.
type testInfoView struct {
	Timestamp       string `json:"timestamp"`
	RealAIUsed      bool   `json:"realAIUsed"`
	StorageType     string `json:"storageType"`
	DuplicateWindow string `json:"duplicateWindow"`
}

// memoryQueryResponse is the 200 body of POST /api/test-memory-query.
type memoryQueryResponse struct {
	Success    bool            `json:"success"`
	AIAnswer   string          `json:"aiAnswer"`
	Validation core.Validation `json:"validation"`
	Sharing    sharingView     `json:"sharing"`
	TestInfo   testInfoView    `json:"testInfo"`
}

// handleMemoryQuery runs the full answer-and-share pipeline.
func (s *Server) handleMemoryQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req memoryQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and prompt are required"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and prompt are required"})
		return
	}

	result, err := s.client.Query(r.Context(), req.UserID, req.Prompt, core.WithShare(req.Share))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and prompt are required"})
		case errors.Is(err, core.ErrValidationRejected):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":     "Invalid AI response",
				"reason":    result.Validation.Reason,
				"aiAnswer":  result.Answer,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		default:
			s.logger.Error("memory query failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":     "Test failed",
				"details":   err.Error(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		}
		return
	}

	sharing := sharingView{
		Requested:         result.Sharing.Requested,
		Successful:        result.Sharing.Successful,
		DuplicateDetected: result.Sharing.DuplicateDetected,
	}
	if m := result.Sharing.Memory; m != nil {
		sharing.SharedMemory = &sharedMemoryView{
			ID:       m.ID,
			UserID:   m.UserID,
			Question: m.Question,
			SharedAt: m.SharedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, memoryQueryResponse{
		Success:    true,
		AIAnswer:   result.Answer,
		Validation: result.Validation,
		Sharing:    sharing,
		TestInfo: testInfoView{
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			RealAIUsed:      true,
			StorageType:     s.client.StorageProvider(),
			DuplicateWindow: fmt.Sprintf("%d seconds", int(s.client.SuppressionWindow().Seconds())),
		},
	})
}

// suppressionEntryView is one row of the diagnostic duplicate table.
type suppressionEntryView struct {
	Key        string `json:"key"`
	Question   string `json:"question"`
	Timestamp  string `json:"timestamp"`
	SecondsAgo int    `json:"secondsAgo"`
}

// handleSharedMemories dumps the in-memory duplicate-tracking table.
//
// This diagnostic reads only the process-local suppression map; persisted
// shared memories are not included.
func (s *Server) handleSharedMemories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	now := time.Now()
	entries := s.client.SuppressionTable()
	views := make([]suppressionEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, suppressionEntryView{
			Key:        entry.Key,
			Question:   entry.Question,
			Timestamp:  entry.RecordedAt.UTC().Format(time.RFC3339),
			SecondsAgo: int(now.Sub(entry.RecordedAt).Seconds()),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "In-memory duplicate suppression table. Entries expire after the suppression window; persisted shared memories are not shown here.",
		"count":   len(views),
		"entries": views,
	})
}

// validationRequest is the body of POST /api/test-validation.
type validationRequest struct {
	TestType string `json:"testType"`
	UserID   string `json:"userId"`
}

// cannedPrompts maps each testType tag to its fixed probe prompt. The
// "invalid" prompt intentionally matches no topic keyword so it exercises the
// generator's default branch.
var cannedPrompts = map[string]string{
	"goals":     "What goals are set for my student?",
	"services":  "What services and accommodations are we receiving?",
	"documents": "How many documents have I uploaded?",
	"meetings":  "When is our next meeting scheduled?",
	"invalid":   "Tell me about invalid content.",
}

// handleValidation runs the generator + validator path for a canned prompt.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req validationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "testType is required"})
		return
	}

	prompt, ok := cannedPrompts[req.TestType]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown testType"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "validation-demo"
	}

	result, err := s.client.Query(r.Context(), userID, prompt)
	if err != nil && !errors.Is(err, core.ErrValidationRejected) {
		s.logger.Error("validation test failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":     "Test failed",
			"details":   err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"testType":   req.TestType,
		"prompt":     prompt,
		"aiAnswer":   result.Answer,
		"validation": result.Validation,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
