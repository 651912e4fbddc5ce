package mood

import (
	"context"
	"errors"
	"fmt"

	"mindful-chat/internal/repository/db"
	"mindful-chat/pkg/validation"
)

// ErrMissingMood is returned when a check-in omits the mood token.
// No record is created in that case.
var ErrMissingMood = errors.New("mood is required")

// listLimit caps how many entries the read endpoint returns
const listLimit = 100

// Service handles mood check-in creation and listing
type Service struct {
	db        db.Database
	validator *validation.MoodEntryValidator
}

// NewService creates a mood Service
func NewService(database db.Database) *Service {
	return &Service{
		db:        database,
		validator: validation.NewMoodEntryValidator(),
	}
}

// Create records one mood check-in. The mood token is required; the
// note defaults to empty.
func (s *Service) Create(ctx context.Context, ownerID, mood, note string) (*db.MoodEntry, error) {
	if err := s.validator.ValidateMood(mood); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMood, err)
	}

	entry, err := s.db.CreateMoodEntry(ctx, ownerID, mood, note)
	if err != nil {
		return nil, fmt.Errorf("failed to save mood entry: %w", err)
	}

	return entry, nil
}

// List returns the owner's most recent mood entries, newest first,
// capped at 100
func (s *Service) List(ctx context.Context, ownerID string) ([]db.MoodEntry, error) {
	entries, err := s.db.ListMoodEntries(ctx, ownerID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}
