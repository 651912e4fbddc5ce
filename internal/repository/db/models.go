package db

import (
	"context"
	"time"
)

// Message roles. Only these two values are ever persisted; the system
// instruction is assembled per request and never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn owned by a single user
type Message struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MoodEntry is one mood check-in: a required mood token plus an
// optional free-text note
type MoodEntry struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	Mood      string    `db:"mood" json:"mood"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Database defines the interface for all persistence operations.
// Handlers and services depend on this interface rather than a concrete
// store so tests can substitute doubles.
type Database interface {
	// Messages
	CreateMessage(ctx context.Context, ownerID, role, content string) (*Message, error)
	// ListMessages returns at most limit messages for the owner. When
	// ascending is true the result is oldest-first, otherwise newest-first.
	ListMessages(ctx context.Context, ownerID string, limit int, ascending bool) ([]Message, error)

	// Mood entries
	CreateMoodEntry(ctx context.Context, ownerID, mood, note string) (*MoodEntry, error)
	// ListMoodEntries returns at most limit entries for the owner, newest first.
	ListMoodEntries(ctx context.Context, ownerID string, limit int) ([]MoodEntry, error)

	Close() error
}
