// Command memshare runs the answer-and-share pipeline service for the IEP
// advocacy product.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/edvocate/memshare-go/internal/server"
	"github.com/edvocate/memshare-go/pkg/core"
	"github.com/edvocate/memshare-go/pkg/notify"
	"github.com/edvocate/memshare-go/pkg/storage"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "memshare",
		Short: "Answer-and-share pipeline service for IEP advocacy",
		Long: `memshare answers questions about a user's IEP data (goals, documents,
events) with a deterministic generator, validates every answer against a
content policy, and shares accepted answers with advocates while suppressing
duplicate questions inside a short window.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (default: environment)")

	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the YAML config when --config is set, otherwise the
// environment (including any discovered .env file).
func loadConfig() (*core.Config, error) {
	if configPath != "" {
		return core.LoadConfigFromFile(configPath)
	}
	return core.LoadConfigFromEnv()
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "memshare",
	})
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Server.LogLevel)

			client, err := core.NewClient(cfg,
				core.WithLogger(logger),
				core.WithNotifier(notify.NewLogNotifier(logger)),
			)
			if err != nil {
				return err
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Warn("failed to close client", "error", err)
				}
			}()

			srv := &http.Server{
				Addr:    cfg.Server.Addr,
				Handler: server.New(client, logger).Handler(),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Provider)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo goals, documents, and events for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Server.LogLevel)

			client, err := core.NewClient(cfg, core.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ctx := cmd.Context()
			if err := seedDemoData(ctx, client, userID); err != nil {
				return err
			}

			logger.Info("seeded demo data", "user_id", userID, "storage", cfg.Storage.Provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "demo-user", "user ID to seed data for")
	return cmd
}

// seedDemoData inserts a small, representative data set for one user.
func seedDemoData(ctx context.Context, client *core.Client, userID string) error {
	now := time.Now()
	due := now.AddDate(0, 3, 0)

	goals := []*storage.Goal{
		{UserID: userID, Title: "Reading fluency", Description: "Read 90 words per minute with 95% accuracy", Status: storage.GoalStatusInProgress, Progress: 45, DueDate: &due},
		{UserID: userID, Title: "Math problem solving", Description: "Solve two-step word problems independently", Status: storage.GoalStatusInProgress, Progress: 30, DueDate: &due},
		{UserID: userID, Title: "Self-advocacy", Description: "Request breaks when overwhelmed", Status: storage.GoalStatusNotStarted, Progress: 0},
	}
	for _, goal := range goals {
		if _, err := client.AddGoal(ctx, goal); err != nil {
			return fmt.Errorf("seed goal: %w", err)
		}
	}

	docs := []*storage.Document{
		{UserID: userID, Title: "Current IEP"},
		{UserID: userID, Title: "Psychoeducational evaluation"},
		{UserID: userID, Title: "Q2 progress report"},
	}
	for _, doc := range docs {
		if _, err := client.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("seed document: %w", err)
		}
	}

	events := []*storage.Event{
		{UserID: userID, Title: "Annual IEP review", Date: now.AddDate(0, 1, 0)},
		{UserID: userID, Title: "Parent-teacher conference", Date: now.AddDate(0, 0, 14)},
		{UserID: userID, Title: "Last team check-in", Date: now.AddDate(0, -1, 0)},
	}
	for _, event := range events {
		if _, err := client.AddEvent(ctx, event); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}

	return nil
}
