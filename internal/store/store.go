// Package store provides the durable reminder and chat-log storage interface
// and its SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/aura/internal/model"
)

// Store defines the persistence interface for the assistant core.
type Store interface {
	// AddReminder persists a reminder record. The record's ID must be set.
	AddReminder(ctx context.Context, r model.Reminder) error

	// RemoveReminders deletes every record whose message exactly equals the
	// given string and returns the removed records.
	RemoveReminders(ctx context.Context, message string) ([]model.Reminder, error)

	// RemoveReminderByID deletes a single record by ID.
	RemoveReminderByID(ctx context.Context, id string) error

	// ListReminders returns all records in insertion order.
	ListReminders(ctx context.Context) ([]model.Reminder, error)

	// AppendTurn appends one chat-log entry.
	AppendTurn(ctx context.Context, t model.Turn) error

	// RecentTurns returns up to limit of the newest turns, oldest first.
	RecentTurns(ctx context.Context, limit int) ([]model.Turn, error)

	// Turns returns the full chat log in insertion order.
	Turns(ctx context.Context) ([]model.Turn, error)

	// Close closes the store.
	Close() error
}
