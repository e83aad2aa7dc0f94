package router

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/slots"
)

// Loop polls the microphone slot and runs assistant cycles while it is on.
// Intervals are deliberately uneven: tight while active, relaxed while idle,
// and in between after resetting a corrupt mic slot.
type Loop struct {
	Router *Router
	Slots  *slots.Slots
	Log    *zap.Logger

	ActiveInterval time.Duration
	IdleInterval   time.Duration
	ResetInterval  time.Duration
}

func (l *Loop) intervals() (active, idle, reset time.Duration) {
	active, idle, reset = l.ActiveInterval, l.IdleInterval, l.ResetInterval
	if active <= 0 {
		active = 200 * time.Millisecond
	}
	if idle <= 0 {
		idle = time.Second
	}
	if reset <= 0 {
		reset = 800 * time.Millisecond
	}
	return active, idle, reset
}

// Run polls until the context is cancelled. Mic on runs a cycle; mic off
// parks the status at Available...; an unreadable mic slot is forced off.
func (l *Loop) Run(ctx context.Context) error {
	active, idle, reset := l.intervals()

	for {
		var sleep time.Duration
		switch l.Slots.Mic() {
		case slots.MicOn:
			l.Router.RunCycle(ctx)
			sleep = active
		case slots.MicOff:
			if !strings.Contains(l.Slots.Status(), "Available...") {
				if err := l.Slots.SetStatus("Available..."); err != nil {
					l.Log.Warn("write status slot", zap.Error(err))
				}
			}
			sleep = idle
		default:
			l.Log.Warn("mic slot unreadable, forcing off")
			if err := l.Slots.SetMic(false); err != nil {
				l.Log.Warn("reset mic slot", zap.Error(err))
			}
			sleep = reset
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
