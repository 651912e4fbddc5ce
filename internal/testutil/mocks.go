package testutil

import (
	"context"
	"errors"
	"time"

	"mindful-chat/internal/repository/db"
	"mindful-chat/internal/service/llm"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	CreateMessageFunc   func(ctx context.Context, ownerID, role, content string) (*db.Message, error)
	ListMessagesFunc    func(ctx context.Context, ownerID string, limit int, ascending bool) ([]db.Message, error)
	CreateMoodEntryFunc func(ctx context.Context, ownerID, mood, note string) (*db.MoodEntry, error)
	ListMoodEntriesFunc func(ctx context.Context, ownerID string, limit int) ([]db.MoodEntry, error)

	// CreatedMessages records every persisted message in order
	CreatedMessages []db.Message
}

func (m *MockDatabase) CreateMessage(ctx context.Context, ownerID, role, content string) (*db.Message, error) {
	if m.CreateMessageFunc != nil {
		msg, err := m.CreateMessageFunc(ctx, ownerID, role, content)
		if err == nil && msg != nil {
			m.CreatedMessages = append(m.CreatedMessages, *msg)
		}
		return msg, err
	}
	msg := &db.Message{
		ID:        "msg-" + role,
		OwnerID:   ownerID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	m.CreatedMessages = append(m.CreatedMessages, *msg)
	return msg, nil
}

func (m *MockDatabase) ListMessages(ctx context.Context, ownerID string, limit int, ascending bool) ([]db.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, ownerID, limit, ascending)
	}
	return nil, nil
}

func (m *MockDatabase) CreateMoodEntry(ctx context.Context, ownerID, mood, note string) (*db.MoodEntry, error) {
	if m.CreateMoodEntryFunc != nil {
		return m.CreateMoodEntryFunc(ctx, ownerID, mood, note)
	}
	return &db.MoodEntry{
		ID:        "mood-1",
		OwnerID:   ownerID,
		Mood:      mood,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (m *MockDatabase) ListMoodEntries(ctx context.Context, ownerID string, limit int) ([]db.MoodEntry, error) {
	if m.ListMoodEntriesFunc != nil {
		return m.ListMoodEntriesFunc(ctx, ownerID, limit)
	}
	return nil, nil
}

func (m *MockDatabase) Close() error {
	return nil
}

// MockCompletionClient is a mock implementation of llm.CompletionClient
// for testing. CallCount tracks provider invocations so tests can
// assert the crisis path never reaches the provider.
type MockCompletionClient struct {
	CompleteFunc func(ctx context.Context, messages []llm.Message) (string, error)
	CallCount    int

	// LastMessages holds the context passed to the most recent call
	LastMessages []llm.Message
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	m.CallCount++
	m.LastMessages = messages
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "", errors.New("not implemented")
}

// MockFilter is a mock safety filter with a fixed answer
type MockFilter struct {
	MatchesFunc func(text string) bool
}

func (m *MockFilter) Matches(text string) bool {
	if m.MatchesFunc != nil {
		return m.MatchesFunc(text)
	}
	return false
}
