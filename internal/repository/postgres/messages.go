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

// CreateMessage persists one conversational turn for an owner. The
// creation timestamp is assigned here rather than by the database so
// ordering does not depend on store-level defaults.
func (p *PostgresDB) CreateMessage(ctx context.Context, ownerID, role, content string) (*db.Message, error) {
	msg := &db.Message{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	query := `
	INSERT INTO messages (id, owner_id, role, content, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := p.conn.ExecContext(ctx, query, msg.ID, msg.OwnerID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"owner_id":   ownerID,
		"role":       role,
	}).Debug("Stored message")

	return msg, nil
}

// ListMessages retrieves the most recent messages for an owner, capped
// at limit. The returned slice is oldest-first when ascending is true,
// newest-first otherwise. In both cases the selection window is the
// most recent limit rows; seq breaks ties for writes that land on the
// same timestamp.
func (p *PostgresDB) ListMessages(ctx context.Context, ownerID string, limit int, ascending bool) ([]db.Message, error) {
	query := `
	SELECT id, owner_id, role, content, created_at
	FROM messages
	WHERE owner_id = $1
	ORDER BY created_at DESC, seq DESC
	LIMIT $2
	`
	if ascending {
		query = `
	SELECT id, owner_id, role, content, created_at
	FROM (
		SELECT id, owner_id, role, content, created_at, seq
		FROM messages
		WHERE owner_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	) recent
	ORDER BY created_at ASC, seq ASC
	`
	}

	var messages []db.Message
	if err := p.conn.SelectContext(ctx, &messages, query, ownerID, limit); err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}

	return messages, nil
}
