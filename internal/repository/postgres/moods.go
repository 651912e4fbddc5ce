package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mindful-chat/internal/logger"
	"mindful-chat/internal/repository/db"
)

// CreateMoodEntry persists one mood check-in for an owner
func (p *PostgresDB) CreateMoodEntry(ctx context.Context, ownerID, mood, note string) (*db.MoodEntry, error) {
	entry := &db.MoodEntry{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Mood:      mood,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}

	query := `
	INSERT INTO mood_entries (id, owner_id, mood, note, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := p.conn.ExecContext(ctx, query, entry.ID, entry.OwnerID, entry.Mood, entry.Note, entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("error creating mood entry: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"entry_id": entry.ID,
		"owner_id": ownerID,
	}).Debug("Stored mood entry")

	return entry, nil
}

// ListMoodEntries retrieves the most recent mood entries for an owner,
// newest first, capped at limit. seq breaks ties for check-ins landing
// on the same timestamp, matching the messages table.
func (p *PostgresDB) ListMoodEntries(ctx context.Context, ownerID string, limit int) ([]db.MoodEntry, error) {
	query := `
	SELECT id, owner_id, mood, note, created_at
	FROM mood_entries
	WHERE owner_id = $1
	ORDER BY created_at DESC, seq DESC
	LIMIT $2
	`

	var entries []db.MoodEntry
	if err := p.conn.SelectContext(ctx, &entries, query, ownerID, limit); err != nil {
		return nil, fmt.Errorf("error querying mood entries: %w", err)
	}

	return entries, nil
}
