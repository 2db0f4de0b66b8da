// Package rules implements the deterministic, rule-based answer generator.
//
// The generator inspects the lower-cased prompt for topic keywords in a fixed
// priority order and renders a topic-specific template from the query context.
// It is a pure function over its inputs: no randomness, no clock reads, no
// network calls.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvocate/memshare-go/pkg/answer"
)

// Topic identifies which templated answer a prompt maps to.
type Topic string

const (
	// TopicGoals covers questions about IEP goals and progress.
	TopicGoals Topic = "goals"

	// TopicServices covers questions about services and accommodations.
	TopicServices Topic = "services"

	// TopicDocuments covers questions about stored documents and files.
	TopicDocuments Topic = "documents"

	// TopicMeetings covers questions about meetings and events.
	TopicMeetings Topic = "meetings"

	// TopicCommunications covers questions about school communications.
	TopicCommunications Topic = "communications"

	// TopicDefault is the fallback when no topic keyword matches.
	TopicDefault Topic = "default"
)

// topicKeywords pairs each topic with its trigger keywords, in priority
// order. The first topic with a matching keyword wins.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicGoals, []string{"goal", "progress"}},
	{TopicServices, []string{"service", "accommodation"}},
	{TopicDocuments, []string{"document", "file"}},
	{TopicMeetings, []string{"meeting", "event"}},
	{TopicCommunications, []string{"communication", "message", "contact"}},
}

// Generator is the deterministic rule-based answer generator.
//
// The zero value is ready to use.
type Generator struct{}

// NewGenerator creates a new rule-based Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// DetectTopic maps a prompt to its answer topic using the fixed keyword
// priority order.
func DetectTopic(prompt string) Topic {
	lower := strings.ToLower(prompt)
	for _, entry := range topicKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.topic
			}
		}
	}
	return TopicDefault
}

// Generate returns the templated answer for the prompt's topic.
//
// The returned text always satisfies the output content policy: every
// template mentions at least one of the required keywords, and the default
// branch mentions all of them.
func (g *Generator) Generate(_ context.Context, prompt string, qctx *answer.Context) (string, error) {
	switch DetectTopic(prompt) {
	case TopicGoals:
		return goalsAnswer(qctx), nil
	case TopicServices:
		return servicesAnswer(qctx), nil
	case TopicDocuments:
		return documentsAnswer(qctx), nil
	case TopicMeetings:
		return meetingsAnswer(qctx), nil
	case TopicCommunications:
		return communicationsAnswer(), nil
	default:
		return defaultAnswer(), nil
	}
}

func goalsAnswer(qctx *answer.Context) string {
	if len(qctx.Goals) == 0 {
		// Note: this message passes the output policy only because it
		// happens to contain the word "goals". Preserved as observed
		// behavior, not a verified contract.
		return "You don't have any IEP goals recorded yet. Once goals are added to your student's plan, I can track progress on each one for you."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your student has %d IEP %s on record:\n", len(qctx.Goals), plural(len(qctx.Goals), "goal", "goals"))
	for _, goal := range qctx.Goals {
		fmt.Fprintf(&b, "- %s: %s, %d%% complete", goal.Title, goal.Status, goal.Progress)
		if goal.DueDate != nil {
			fmt.Fprintf(&b, " (due %s)", goal.DueDate.Format("January 2, 2006"))
		}
		b.WriteString("\n")
	}
	b.WriteString("Reviewing goal progress before each IEP meeting helps you spot where services need adjusting.")
	return b.String()
}

func servicesAnswer(qctx *answer.Context) string {
	return fmt.Sprintf(
		"Services and accommodations are defined in your student's IEP. You currently have %d %s and %d %s on file to support service requests. If a service isn't being delivered as written, document each missed session and raise it with the team.",
		len(qctx.Goals), plural(len(qctx.Goals), "goal", "goals"),
		qctx.DocumentsCount, plural(qctx.DocumentsCount, "document", "documents"))
}

func documentsAnswer(qctx *answer.Context) string {
	return fmt.Sprintf(
		"You have %d %s stored in your library. Keeping evaluations, IEP drafts, and progress reports organized gives you the evidence you need when requesting new services or accommodations.",
		qctx.DocumentsCount, plural(qctx.DocumentsCount, "document", "documents"))
}

func meetingsAnswer(qctx *answer.Context) string {
	return fmt.Sprintf(
		"You have %d upcoming %s out of %d total on your calendar. IEP meetings are the best opportunity to review goals and make sure services match your student's needs.",
		qctx.UpcomingEvents, plural(qctx.UpcomingEvents, "event", "events"),
		qctx.TotalEvents)
}

func communicationsAnswer() string {
	return "Keep every message to and from the school in writing. A dated record of communications is the strongest support for requests about services, goals, and accommodations."
}

func defaultAnswer() string {
	return "I can help you track your student's IEP: ask me about goals and progress, the services and accommodations in the plan, your stored documents, upcoming meetings, or your communications with the school."
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
