package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rcliao/aura/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndListReminders(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	r := model.Reminder{ID: s.NewID(), Message: "call mom", At: at}
	if err := s.AddReminder(ctx, r); err != nil {
		t.Fatalf("add: %v", err)
	}

	list, err := s.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(list))
	}
	if list[0].Message != "call mom" {
		t.Errorf("expected 'call mom', got %q", list[0].Message)
	}
	if !list[0].At.Equal(at) {
		t.Errorf("expected target %v, got %v", at, list[0].At)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, msg := range []string{"first", "second", "third"} {
		if err := s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: msg, At: time.Now()}); err != nil {
			t.Fatalf("add %q: %v", msg, err)
		}
	}

	list, _ := s.ListReminders(ctx)
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	for i, want := range []string{"first", "second", "third"} {
		if list[i].Message != want {
			t.Errorf("position %d: expected %q, got %q", i, want, list[i].Message)
		}
	}
}

func TestRemoveRemindersExactMatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: "water plants", At: time.Now()})
	s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: "water plants", At: time.Now()})
	s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: "water plants tomorrow", At: time.Now()})

	removed, err := s.RemoveReminders(ctx, "water plants")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("expected 2 removed, got %d", len(removed))
	}

	list, _ := s.ListReminders(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(list))
	}
	if list[0].Message != "water plants tomorrow" {
		t.Errorf("wrong record removed, remaining %q", list[0].Message)
	}

	// Removing a message with no match reports nothing removed.
	removed, err = s.RemoveReminders(ctx, "no such reminder")
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("expected 0 removed, got %d", len(removed))
	}
}

func TestReminderRestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	at := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)
	s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: "a", At: at})
	s.AddReminder(ctx, model.Reminder{ID: s.NewID(), Message: "b", At: at.Add(time.Minute)})
	s.Close()

	// Reopen to simulate process restart.
	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	list, err := s2.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 after restart, got %d", len(list))
	}
	if list[0].Message != "a" || list[1].Message != "b" {
		t.Errorf("order not preserved across restart: %q, %q", list[0].Message, list[1].Message)
	}
	if !list[0].At.Equal(at) {
		t.Errorf("target time not preserved: %v vs %v", list[0].At, at)
	}
}

func TestChatLogAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		if err := s.AppendTurn(ctx, model.Turn{Role: role, Content: string(rune('a' + i))}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.Turns(ctx)
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(all))
	}
	if all[0].Content != "a" || all[4].Content != "e" {
		t.Errorf("wrong order: first %q last %q", all[0].Content, all[4].Content)
	}

	recent, err := s.RecentTurns(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent, got %d", len(recent))
	}
	// Newest two, oldest first.
	if recent[0].Content != "d" || recent[1].Content != "e" {
		t.Errorf("expected [d e], got [%q %q]", recent[0].Content, recent[1].Content)
	}
}

func TestConcurrentWritersQueue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Dispatcher goroutines and reminder timers write through separate
	// connections; every write must queue, not fail busy.
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := model.Reminder{ID: s.NewID(), Message: fmt.Sprintf("task %d", i), At: time.Now().Add(time.Hour)}
			if err := s.AddReminder(ctx, r); err != nil {
				errs <- err
			}
			if err := s.AppendTurn(ctx, model.Turn{Role: model.RoleUser, Content: fmt.Sprintf("turn %d", i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}

	list, err := s.ListReminders(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 8 {
		t.Errorf("expected 8 reminders, got %d", len(list))
	}
	turns, err := s.Turns(ctx)
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 8 {
		t.Errorf("expected 8 turns, got %d", len(turns))
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
