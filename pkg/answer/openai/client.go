// Package openai provides an LLM-backed answer generator using the OpenAI
// chat completions API.
//
// It implements the answer.Generator interface for deployments that want a
// real model instead of the rule-based generator. Output still goes through
// the same content policy check, which is the point of the validator.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edvocate/memshare-go/pkg/answer"
)

// Generator is an OpenAI-backed answer generator.
type Generator struct {
	client *openai.Client
	model  string
}

// Config is the configuration for the OpenAI generator.
// APIKey: OpenAI API key (required)
// Model: Model name to use, defaults to "gpt-4o-mini"
// BaseURL: API base URL, defaults to the OpenAI official address
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGenerator creates a new OpenAI-backed Generator.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai generator: api key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Generator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Generate answers the prompt with a chat completion grounded on the query
// context.
//
// The system prompt pins the model to the user's stored data and instructs it
// to answer in terms of goals, services, and accommodations so that output
// normally satisfies the content policy. The policy is still enforced by the
// caller.
func (g *Generator) Generate(ctx context.Context, prompt string, qctx *answer.Context) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(qctx)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai generator: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai generator: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// systemPrompt renders the bounded query context into grounding instructions.
func systemPrompt(qctx *answer.Context) string {
	var b strings.Builder
	b.WriteString("You are an assistant for a parent managing their student's IEP (Individualized Education Program). ")
	b.WriteString("Answer only from the data below, in plain language, and frame answers in terms of the student's goals, services, and accommodations.\n\n")

	if len(qctx.Goals) == 0 {
		b.WriteString("Goals: none recorded.\n")
	} else {
		fmt.Fprintf(&b, "Goals (%d):\n", len(qctx.Goals))
		for _, goal := range qctx.Goals {
			fmt.Fprintf(&b, "- %s: %s, %d%% complete\n", goal.Title, goal.Status, goal.Progress)
		}
	}
	fmt.Fprintf(&b, "Documents stored: %d\n", qctx.DocumentsCount)
	fmt.Fprintf(&b, "Events: %d upcoming of %d total\n", qctx.UpcomingEvents, qctx.TotalEvents)

	return b.String()
}
