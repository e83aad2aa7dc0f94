package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/model"
	"github.com/rcliao/aura/internal/store"
)

// Scheduler keeps the persisted reminder list and the in-memory timer set in
// step: Add persists and schedules together, Remove deletes records and
// cancels their pending timers, and a fired timer deletes its own record.
type Scheduler struct {
	store    store.Store
	log      *zap.Logger
	notify   func(model.Reminder)
	announce func(string)
	now      func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNotify sets the callback invoked when a reminder fires.
func WithNotify(fn func(model.Reminder)) Option {
	return func(s *Scheduler) { s.notify = fn }
}

// WithAnnounce sets the callback used to surface list output to the user.
func WithAnnounce(fn func(string)) Option {
	return func(s *Scheduler) { s.announce = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler over the given store.
func New(st store.Store, log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  st,
		log:    log,
		now:    time.Now,
		timers: make(map[string]*time.Timer),
	}
	s.notify = func(r model.Reminder) {
		s.log.Info("reminder fired", zap.String("message", r.Message), zap.Time("at", r.At))
	}
	s.announce = func(text string) { s.log.Info(text) }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newID is safe for concurrent use; Add can run from several dispatcher
// goroutines in one batch.
func (s *Scheduler) newID() string {
	return ulid.Make().String()
}

// Add parses the payload into a target time (relative expressions first, then
// clock times), persists the record, and schedules the notification. Returns
// the created reminder, or an error when neither parse succeeds.
func (s *Scheduler) Add(ctx context.Context, payload string) (*model.Reminder, error) {
	now := s.now()

	delay, matched, ok := ParseRelative(payload)
	var target time.Time
	if ok {
		target = now.Add(delay)
	} else {
		delay, target, matched, ok = ParseAbsolute(payload, now)
		if !ok {
			return nil, fmt.Errorf("no valid time found in %q", payload)
		}
	}

	r := model.Reminder{
		ID:        s.newID(),
		Message:   deriveMessage(payload, matched),
		At:        target,
		CreatedAt: now,
	}
	if err := s.store.AddReminder(ctx, r); err != nil {
		return nil, err
	}
	s.schedule(r, delay)
	s.log.Info("reminder set",
		zap.String("message", r.Message),
		zap.Time("at", r.At),
		zap.Duration("delay", delay))
	return &r, nil
}

// Remove deletes every persisted record whose message exactly equals the
// given string and cancels their pending timers. Reports whether anything
// was removed.
func (s *Scheduler) Remove(ctx context.Context, message string) (bool, error) {
	removed, err := s.store.RemoveReminders(ctx, message)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	for _, r := range removed {
		if t, ok := s.timers[r.ID]; ok {
			t.Stop()
			delete(s.timers, r.ID)
		}
	}
	s.mu.Unlock()
	return len(removed) > 0, nil
}

// List returns the persisted records in storage order.
func (s *Scheduler) List(ctx context.Context) ([]model.Reminder, error) {
	return s.store.ListReminders(ctx)
}

// Restore reloads persisted records after a process restart and reschedules
// them. Records whose target time has already passed fire immediately.
func (s *Scheduler) Restore(ctx context.Context) error {
	list, err := s.store.ListReminders(ctx)
	if err != nil {
		return fmt.Errorf("restore reminders: %w", err)
	}
	now := s.now()
	for _, r := range list {
		delay := r.At.Sub(now)
		if delay < 0 {
			delay = 0
		}
		s.schedule(r, delay)
	}
	if len(list) > 0 {
		s.log.Info("reminders restored", zap.Int("count", len(list)))
	}
	return nil
}

func (s *Scheduler) schedule(r model.Reminder, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[r.ID] = time.AfterFunc(delay, func() { s.fire(r) })
}

func (s *Scheduler) fire(r model.Reminder) {
	s.mu.Lock()
	delete(s.timers, r.ID)
	s.mu.Unlock()

	if err := s.store.RemoveReminderByID(context.Background(), r.ID); err != nil {
		s.log.Warn("remove fired reminder", zap.String("id", r.ID), zap.Error(err))
	}
	s.notify(r)
}

// Pending returns the number of scheduled in-memory timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all pending timers without touching persisted records.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Handle is the dispatcher entry point for "reminder ..." commands. The
// argument starts with one of add, remove, or list.
func (s *Scheduler) Handle(ctx context.Context, arg string) error {
	arg = strings.TrimSpace(arg)
	lower := strings.ToLower(arg)
	switch {
	case strings.HasPrefix(lower, "add"):
		_, err := s.Add(ctx, strings.TrimSpace(arg[len("add"):]))
		return err

	case strings.HasPrefix(lower, "remove"):
		msg := strings.TrimSpace(arg[len("remove"):])
		ok, err := s.Remove(ctx, msg)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reminder not found: %s", msg)
		}
		s.announce("Reminder removed: " + msg)
		return nil

	case strings.HasPrefix(lower, "list"), strings.Contains(lower, "all reminders"):
		list, err := s.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			s.announce("No reminders set.")
			return nil
		}
		var b strings.Builder
		b.WriteString("Reminders:")
		for i, r := range list {
			fmt.Fprintf(&b, "\n%d. %s -> %s", i+1, r.Message, r.At.Format("2006-01-02 15:04:05"))
		}
		s.announce(b.String())
		return nil
	}
	return fmt.Errorf("invalid reminder command %q (use add, remove, or list)", arg)
}
