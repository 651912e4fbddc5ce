package llm

import "context"

// Message is one role/content pair in the context sent to the
// completion provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles understood by the completion provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionClient defines the interface for the external completion
// provider. The orchestrator depends on this interface so tests can
// substitute a double and assert call counts.
type CompletionClient interface {
	// Complete sends the ordered context and returns the reply text.
	// An empty provider response is substituted with a fixed fallback;
	// transport and provider errors are returned as-is with no retry.
	Complete(ctx context.Context, messages []Message) (string, error)
}
