// Package llm is the boundary to the external language models: intent
// classification and free-text answer generation, with pluggable chat
// providers behind one interface.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rcliao/aura/internal/model"
	"github.com/rcliao/aura/internal/transcript"
)

// RoleSystem marks provider-level instruction messages; user/assistant roles
// come from the model package.
const RoleSystem = "system"

// ChatMessage is one message in a provider conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatModel is a raw chat-completion provider.
type ChatModel interface {
	Chat(ctx context.Context, msgs []ChatMessage) (string, error)
}

// Classifier turns one utterance into a list of intents.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]model.Intent, error)
}

// Responder generates a single free-text answer for a query.
type Responder interface {
	Reply(ctx context.Context, query string, history []model.Turn) (string, error)
}

// ParseDecision filters raw classifier output into intents from the fixed
// vocabulary. Falls back to a single general intent carrying the original
// utterance when nothing survives the filter.
func ParseDecision(raw, original string) []model.Intent {
	raw = strings.ReplaceAll(raw, "\n", " ")
	var intents []model.Intent
	for _, part := range strings.Split(raw, ",") {
		if in, ok := model.ParseIntent(part); ok {
			intents = append(intents, in)
		}
	}
	if len(intents) == 0 {
		return []model.Intent{{Verb: "general", Arg: strings.TrimSpace(original)}}
	}
	return intents
}

// ModelClassifier classifies through a chat provider using the decision
// preamble.
type ModelClassifier struct {
	chat ChatModel
}

// NewModelClassifier wraps a chat provider as a Classifier.
func NewModelClassifier(chat ChatModel) *ModelClassifier {
	return &ModelClassifier{chat: chat}
}

func (c *ModelClassifier) Classify(ctx context.Context, text string) ([]model.Intent, error) {
	// The classifier models are unreliable on this phrase; short-circuit it.
	if strings.Contains(strings.ToLower(text), "tired") {
		return []model.Intent{{Verb: "tired"}}, nil
	}

	raw, err := c.chat.Chat(ctx, []ChatMessage{
		{Role: RoleSystem, Content: classifierPreamble},
		{Role: model.RoleUser, Content: text},
	})
	if err != nil {
		return nil, err
	}
	return ParseDecision(raw, text), nil
}

// ModelResponder answers through a chat provider with a fixed system prompt,
// the current date and time, and the recent history window.
type ModelResponder struct {
	chat   ChatModel
	system string
	now    func() time.Time
}

// NewModelResponder wraps a chat provider as a Responder.
func NewModelResponder(chat ChatModel, system string) *ModelResponder {
	return &ModelResponder{chat: chat, system: system, now: time.Now}
}

func (r *ModelResponder) Reply(ctx context.Context, query string, history []model.Turn) (string, error) {
	msgs := []ChatMessage{
		{Role: RoleSystem, Content: r.system},
		{Role: RoleSystem, Content: clockInfo(r.now())},
	}
	for _, t := range history {
		msgs = append(msgs, ChatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, ChatMessage{Role: model.RoleUser, Content: query})

	answer, err := r.chat.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	return transcript.CleanAnswer(answer), nil
}

// RealtimeResponder prepends gathered live context (search results, weather,
// headlines) to every answer.
type RealtimeResponder struct {
	inner  *ModelResponder
	gather func(ctx context.Context, query string) string
}

// NewRealtimeResponder wraps a chat provider as the realtime answer channel.
func NewRealtimeResponder(chat ChatModel, system string, gather func(ctx context.Context, query string) string) *RealtimeResponder {
	return &RealtimeResponder{inner: NewModelResponder(chat, system), gather: gather}
}

func (r *RealtimeResponder) Reply(ctx context.Context, query string, history []model.Turn) (string, error) {
	msgs := []ChatMessage{
		{Role: RoleSystem, Content: r.inner.system},
		{Role: RoleSystem, Content: clockInfo(r.inner.now())},
	}
	if r.gather != nil {
		if info := r.gather(ctx, query); info != "" {
			msgs = append(msgs, ChatMessage{Role: RoleSystem, Content: "Live context:\n" + info})
		}
	}
	for _, t := range history {
		msgs = append(msgs, ChatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, ChatMessage{Role: model.RoleUser, Content: query})

	answer, err := r.inner.chat.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	return transcript.CleanAnswer(answer), nil
}

func clockInfo(now time.Time) string {
	return "Day: " + now.Format("Monday") +
		"\nDate: " + now.Format("02 January 2006") +
		"\nTime: " + now.Format("03:04:05 PM")
}
