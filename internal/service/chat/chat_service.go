package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mindful-chat/internal/logger"
	"mindful-chat/internal/repository/db"
	"mindful-chat/internal/service/llm"
	"mindful-chat/internal/service/prompt"
	"mindful-chat/internal/service/safety"
	"mindful-chat/pkg/validation"
)

// ErrEmptyContent is returned when the chat input is empty or
// whitespace-only. No records are created in that case.
var ErrEmptyContent = errors.New("content must not be empty")

// SendMessageRequest contains the parameters for one chat exchange
type SendMessageRequest struct {
	OwnerID string // Resolved from the auth context, never from the body
	Content string
}

// SendMessageResponse contains both persisted turns of the exchange
type SendMessageResponse struct {
	UserMessage      *db.Message
	AssistantMessage *db.Message
}

// Service sequences one chat exchange: validate, persist the user turn,
// check the safety filter, call the completion provider or short-circuit,
// persist the assistant turn.
type Service struct {
	db            db.Database
	assembler     *prompt.Assembler
	completions   llm.CompletionClient
	filter        safety.Filter
	crisisMessage string
	validator     *validation.ChatRequestValidator
}

// NewService creates a chat Service with explicitly injected
// collaborators
func NewService(database db.Database, completions llm.CompletionClient, filter safety.Filter, crisisMessage string) *Service {
	return &Service{
		db:            database,
		assembler:     prompt.NewAssembler(database),
		completions:   completions,
		filter:        filter,
		crisisMessage: crisisMessage,
		validator:     validation.NewChatRequestValidator(),
	}
}

// SendMessage processes a chat message and returns both turns.
//
// The user turn is persisted before the safety check and the provider
// call, so the transcript always keeps what the user sent even when a
// later step fails.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	if err := s.validator.ValidateContent(req.Content); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, err)
	}

	userMessage, err := s.db.CreateMessage(ctx, req.OwnerID, db.RoleUser, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	reply, err := s.generateReply(ctx, req, userMessage.ID)
	if err != nil {
		return nil, err
	}

	assistantMessage, err := s.persistAssistantTurn(ctx, req.OwnerID, reply)
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}, nil
}

// transcriptLimit caps how many messages the read endpoint returns
const transcriptLimit = 500

// Transcript returns the owner's most recent messages, oldest first,
// capped at 500
func (s *Service) Transcript(ctx context.Context, ownerID string) ([]db.Message, error) {
	messages, err := s.db.ListMessages(ctx, ownerID, transcriptLimit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// generateReply produces the assistant text: the fixed crisis message
// when the input matches the crisis pattern set, otherwise the
// completion provider's reply. The crisis path never touches the
// provider, so it cannot fail on a third-party dependency.
func (s *Service) generateReply(ctx context.Context, req SendMessageRequest, userMessageID string) (string, error) {
	if s.filter.Matches(req.Content) {
		logger.Log.WithField("owner_id", req.OwnerID).Info("Crisis pattern matched, short-circuiting provider call")
		return s.crisisMessage, nil
	}

	messages, err := s.assembler.Assemble(ctx, req.OwnerID, req.Content, userMessageID)
	if err != nil {
		return "", fmt.Errorf("failed to assemble context: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id":      req.OwnerID,
		"context_count": len(messages),
	}).Debug("Prepared context for completion call")

	reply, err := s.completions.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	return reply, nil
}

// persistAssistantTurn writes the assistant turn, retrying once on
// failure. If the retry also fails the generated reply is returned to
// the caller unpersisted rather than lost: the transcript then ends on
// a user turn, which is the accepted at-least-the-user-turn guarantee.
func (s *Service) persistAssistantTurn(ctx context.Context, ownerID, reply string) (*db.Message, error) {
	assistantMessage, err := s.db.CreateMessage(ctx, ownerID, db.RoleAssistant, reply)
	if err == nil {
		return assistantMessage, nil
	}

	logger.Log.WithError(err).Warn("Failed to save assistant message, retrying once")

	assistantMessage, retryErr := s.db.CreateMessage(ctx, ownerID, db.RoleAssistant, reply)
	if retryErr == nil {
		return assistantMessage, nil
	}

	logger.Log.WithError(retryErr).Error("Retry failed, returning unpersisted assistant reply")

	return &db.Message{
		OwnerID:   ownerID,
		Role:      db.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}, nil
}
