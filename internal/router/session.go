// Package router consumes classified intent lists, decides the winning
// action per cycle, and drives the polling loop that keeps the state slots in
// sync with backend progress.
package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/model"
	"github.com/rcliao/aura/internal/store"
	"github.com/rcliao/aura/internal/transcript"
)

// Session owns the chat history for one assistant process. The in-memory
// window is bounded at append time; the full log lives in the store. Only
// the polling loop writes to a session.
type Session struct {
	Username  string
	Assistant string

	store store.Store
	log   *zap.Logger
	max   int
	turns []model.Turn
}

// NewSession creates a session with a bounded history window.
func NewSession(st store.Store, log *zap.Logger, username, assistant string, maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Session{
		Username:  username,
		Assistant: assistant,
		store:     st,
		log:       log,
		max:       maxHistory,
	}
}

// Load populates the window from the persisted chat log.
func (s *Session) Load(ctx context.Context) error {
	turns, err := s.store.RecentTurns(ctx, s.max)
	if err != nil {
		return err
	}
	s.turns = turns
	return nil
}

// Append records a turn in the window and persists it. Persistence failures
// are logged and retried implicitly by the next append; they never interrupt
// a cycle.
func (s *Session) Append(ctx context.Context, role, content string) {
	s.turns = append(s.turns, model.Turn{Role: role, Content: content})
	s.turns = transcript.Window(s.turns, s.max)

	if err := s.store.AppendTurn(ctx, model.Turn{Role: role, Content: content}); err != nil {
		s.log.Warn("persist chat turn", zap.Error(err))
	}
}

// History returns a copy of the current window.
func (s *Session) History() []model.Turn {
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Transcript renders the full persisted chat log for display.
func (s *Session) Transcript(ctx context.Context) (string, error) {
	turns, err := s.store.Turns(ctx)
	if err != nil {
		return "", err
	}
	return transcript.Render(turns, s.Username, s.Assistant), nil
}
