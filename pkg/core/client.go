package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/charmbracelet/log"

	"github.com/edvocate/memshare-go/pkg/answer"
	openaiGenerator "github.com/edvocate/memshare-go/pkg/answer/openai"
	"github.com/edvocate/memshare-go/pkg/answer/rules"
	"github.com/edvocate/memshare-go/pkg/notify"
	"github.com/edvocate/memshare-go/pkg/storage"
	memoryStore "github.com/edvocate/memshare-go/pkg/storage/memory"
	mysqlStore "github.com/edvocate/memshare-go/pkg/storage/mysql"
	postgresStore "github.com/edvocate/memshare-go/pkg/storage/postgres"
	sqliteStore "github.com/edvocate/memshare-go/pkg/storage/sqlite"
	"github.com/edvocate/memshare-go/pkg/suppress"
)

// Client runs the answer-and-share pipeline.
//
// One Query call executes the stages strictly in order: build context,
// generate answer, validate answer, then (only when sharing was requested)
// suppress duplicates, persist, and notify. Answering is the critical path;
// sharing is best-effort.
//
// The client is safe for concurrent use.
//
// Example usage:
//
//	cfg := core.DefaultConfig()
//	client, _ := core.NewClient(cfg)
//	defer client.Close()
//
//	result, err := client.Query(ctx, "user_001", "What goals are set?",
//	    core.WithShare(true),
//	)
type Client struct {
	// config contains the client configuration.
	config *Config

	// storage is the advocacy data backend.
	storage storage.Store

	// generator produces answers from (prompt, context).
	generator answer.Generator

	// suppressor blocks redundant shares within the window.
	suppressor *suppress.Suppressor

	// notifier is invoked best-effort after a successful share.
	notifier notify.Notifier

	// snowflakeNode generates unique IDs for created records.
	snowflakeNode *snowflake.Node

	// logger receives structured pipeline events.
	logger *log.Logger
}

// NewClient creates a new pipeline Client.
//
// The client is initialized from the config with:
//   - Storage backend (memory, SQLite, PostgreSQL, or MySQL)
//   - Answer generator (rules or openai)
//   - Duplicate suppressor with the configured window
//
// Options override any of those, which is how tests inject fakes.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewPipelineError("NewClient", err)
	}

	client := &Client{
		config:        cfg,
		snowflakeNode: node,
		notifier:      notify.Noop{},
		logger:        log.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.storage == nil {
		store, err := initStorage(cfg.Storage)
		if err != nil {
			return nil, err
		}
		client.storage = store
	}

	if client.generator == nil {
		generator, err := initGenerator(cfg.Generator)
		if err != nil {
			return nil, err
		}
		client.generator = generator
	}

	if client.suppressor == nil {
		client.suppressor = suppress.New(time.Duration(cfg.Suppression.WindowSeconds) * time.Second)
	}

	return client, nil
}

// initStorage creates the storage backend for the configured provider.
func initStorage(cfg StorageConfig) (storage.Store, error) {
	switch cfg.Provider {
	case "memory":
		return memoryStore.NewStore(), nil
	case "sqlite":
		return sqliteStore.NewStore(&sqliteStore.Config{DBPath: cfg.SQLite.Path})
	case "postgres":
		return postgresStore.NewStore(&postgresStore.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	case "mysql":
		return mysqlStore.NewStore(&mysqlStore.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			DBName:   cfg.MySQL.DBName,
		})
	default:
		return nil, NewPipelineError("initStorage", fmt.Errorf("%w: unknown storage provider %q", ErrInvalidConfig, cfg.Provider))
	}
}

// initGenerator creates the answer generator for the configured provider.
func initGenerator(cfg GeneratorConfig) (answer.Generator, error) {
	switch cfg.Provider {
	case "rules":
		return rules.NewGenerator(), nil
	case "openai":
		return openaiGenerator.NewGenerator(&openaiGenerator.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, NewPipelineError("initGenerator", fmt.Errorf("%w: unknown generator provider %q", ErrInvalidConfig, cfg.Provider))
	}
}

// Query runs the full pipeline for one question.
//
// The stages execute strictly in order:
//
//	Received -> ContextBuilt -> Answered -> Validated ->
//	{SharingSkipped | DuplicateBlocked | Shared | ShareFailed} -> Responded
//
// Error semantics:
//   - ErrInvalidInput, ErrDataUnavailable, ErrGenerationFailed: no answer
//     could be produced; the result is nil.
//   - ErrValidationRejected: the rejected answer and reason are returned in
//     the result alongside the error so callers can surface both.
//   - A failed share write is NOT an error: the result carries the answer
//     with Sharing.Successful false and the cause is logged server-side.
func (c *Client) Query(ctx context.Context, userID, prompt string, opts ...QueryOption) (*QueryResult, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(prompt) == "" {
		return nil, NewPipelineError("Query", ErrInvalidInput)
	}

	qctx, err := c.BuildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	text, err := c.generator.Generate(ctx, prompt, qctx)
	if err != nil {
		return nil, NewPipelineError("Query", fmt.Errorf("%w: %v", ErrGenerationFailed, err))
	}

	validation := answer.Validate(text)
	result := &QueryResult{
		Answer:     text,
		Validation: toValidation(validation),
	}
	if !validation.IsValid {
		return result, NewPipelineError("Query", ErrValidationRejected)
	}

	options := applyQueryOptions(opts)
	if !options.share {
		return result, nil
	}
	result.Sharing.Requested = true

	if c.suppressor.CheckAndRecord(userID, prompt) {
		result.Sharing.DuplicateDetected = true
		c.logger.Debug("duplicate question suppressed", "user_id", userID)
		return result, nil
	}

	record := &storage.SharedMemory{
		ID:       c.snowflakeNode.Generate().Int64(),
		UserID:   userID,
		Question: prompt,
		Answer:   text,
		SharedAt: time.Now().UTC(),
	}

	if err := c.storage.CreateSharedMemory(ctx, record); err != nil {
		// Sharing is best-effort: the answer is still delivered.
		c.logger.Error("share write failed", "user_id", userID, "error", err)
		return result, nil
	}

	result.Sharing.Successful = true
	result.Sharing.Memory = toSharedMemory(record)

	if err := c.notifier.SharedMemoryCreated(ctx, &notify.Notification{
		UserID:   record.UserID,
		Question: record.Question,
		Answer:   record.Answer,
		SharedAt: record.SharedAt,
	}); err != nil {
		c.logger.Warn("advocate notification failed", "user_id", userID, "error", err)
	}

	return result, nil
}

// BuildContext assembles the per-query context from the user's stored goals,
// documents, and events.
//
// The fetch is read-only. A user with no data yields empty collections, not
// an error. If any read fails the whole fetch fails with ErrDataUnavailable;
// no partial or stale context is ever returned.
func (c *Client) BuildContext(ctx context.Context, userID string) (*answer.Context, error) {
	goals, err := c.storage.GetGoalsByUserID(ctx, userID)
	if err != nil {
		return nil, NewPipelineError("BuildContext", fmt.Errorf("%w: %v", ErrDataUnavailable, err))
	}

	docs, err := c.storage.GetDocumentsByUserID(ctx, userID)
	if err != nil {
		return nil, NewPipelineError("BuildContext", fmt.Errorf("%w: %v", ErrDataUnavailable, err))
	}

	events, err := c.storage.GetEventsByUserID(ctx, userID)
	if err != nil {
		return nil, NewPipelineError("BuildContext", fmt.Errorf("%w: %v", ErrDataUnavailable, err))
	}

	return buildContext(goals, docs, events, time.Now()), nil
}

// AddGoal creates a goal for a user, assigning its ID.
func (c *Client) AddGoal(ctx context.Context, goal *storage.Goal) (*storage.Goal, error) {
	if strings.TrimSpace(goal.UserID) == "" || strings.TrimSpace(goal.Title) == "" {
		return nil, NewPipelineError("AddGoal", ErrInvalidInput)
	}
	if goal.Status == "" {
		goal.Status = storage.GoalStatusNotStarted
	}
	goal.ID = c.snowflakeNode.Generate().Int64()
	if err := c.storage.CreateGoal(ctx, goal); err != nil {
		return nil, NewPipelineError("AddGoal", fmt.Errorf("%w: %v", ErrStorageOperation, err))
	}
	return goal, nil
}

// AddDocument creates a document for a user, assigning its ID.
func (c *Client) AddDocument(ctx context.Context, doc *storage.Document) (*storage.Document, error) {
	if strings.TrimSpace(doc.UserID) == "" || strings.TrimSpace(doc.Title) == "" {
		return nil, NewPipelineError("AddDocument", ErrInvalidInput)
	}
	doc.ID = c.snowflakeNode.Generate().Int64()
	if err := c.storage.CreateDocument(ctx, doc); err != nil {
		return nil, NewPipelineError("AddDocument", fmt.Errorf("%w: %v", ErrStorageOperation, err))
	}
	return doc, nil
}

// AddEvent creates an event for a user, assigning its ID.
func (c *Client) AddEvent(ctx context.Context, event *storage.Event) (*storage.Event, error) {
	if strings.TrimSpace(event.UserID) == "" || strings.TrimSpace(event.Title) == "" {
		return nil, NewPipelineError("AddEvent", ErrInvalidInput)
	}
	event.ID = c.snowflakeNode.Generate().Int64()
	if err := c.storage.CreateEvent(ctx, event); err != nil {
		return nil, NewPipelineError("AddEvent", fmt.Errorf("%w: %v", ErrStorageOperation, err))
	}
	return event, nil
}

// SharedMemories returns the user's persisted shared memories, newest first.
func (c *Client) SharedMemories(ctx context.Context, userID string) ([]*SharedMemory, error) {
	rows, err := c.storage.GetSharedMemoriesByUserID(ctx, userID)
	if err != nil {
		return nil, NewPipelineError("SharedMemories", fmt.Errorf("%w: %v", ErrStorageOperation, err))
	}
	memories := make([]*SharedMemory, 0, len(rows))
	for _, row := range rows {
		memories = append(memories, toSharedMemory(row))
	}
	return memories, nil
}

// SuppressionTable returns the live duplicate-tracking entries, for
// diagnostics.
func (c *Client) SuppressionTable() []suppress.Entry {
	return c.suppressor.Snapshot()
}

// SuppressionWindow returns the configured duplicate suppression window.
func (c *Client) SuppressionWindow() time.Duration {
	return c.suppressor.Window()
}

// StorageProvider returns the configured storage provider name.
func (c *Client) StorageProvider() string {
	return c.config.Storage.Provider
}

// Close closes the client and its storage backend.
func (c *Client) Close() error {
	if c.storage != nil {
		return c.storage.Close()
	}
	return nil
}
