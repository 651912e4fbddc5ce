package validation

import (
	"errors"
	"strings"
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateContent validates a chat message body. Whitespace-only input
// counts as empty.
func (v *ChatRequestValidator) ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}

// MoodEntryValidator validates mood check-in requests
type MoodEntryValidator struct{}

// NewMoodEntryValidator creates a new MoodEntryValidator
func NewMoodEntryValidator() *MoodEntryValidator {
	return &MoodEntryValidator{}
}

// ValidateMood validates the required mood token
func (v *MoodEntryValidator) ValidateMood(mood string) error {
	if strings.TrimSpace(mood) == "" {
		return errors.New("mood cannot be empty")
	}
	return nil
}
