package prompt

import (
	"context"
	"fmt"
	"strings"

	"mindful-chat/internal/repository/db"
	"mindful-chat/internal/service/llm"
)

// Caps on how much stored context is forwarded to the provider.
// Truncation is by count only, never by character length.
const (
	historyLimit     = 20
	moodSummaryLimit = 10
)

// systemInstruction is the fixed safety/style policy sent with every
// completion call.
const systemInstruction = "You are a supportive, non-clinical mental health companion. " +
	"Offer empathy, coping suggestions, and encourage seeking professional help if needed. " +
	"Never diagnose, provide medical advice, or impersonate a healthcare professional. " +
	"Do not validate delusional or harmful beliefs; gently redirect instead."

// noMoodHistory is the placeholder summary line when the owner has no
// recorded mood entries.
const noMoodHistory = "The user has not recorded any mood check-ins yet."

// Assembler builds the per-request conversation context: system
// instruction, mood summary, recent history, and the new user turn.
// Assembly is deterministic; given the same stored data it produces
// the same sequence every time.
type Assembler struct {
	db db.Database
}

// NewAssembler creates an Assembler backed by the given store
func NewAssembler(database db.Database) *Assembler {
	return &Assembler{db: database}
}

// Assemble produces the ordered context for one completion call. The
// history block is re-ordered oldest-first regardless of the store's
// native sort; the new user turn always comes last. excludeID names
// the already-persisted record of the new turn, which would otherwise
// appear both in the history block and as the final message.
func (a *Assembler) Assemble(ctx context.Context, ownerID, newContent, excludeID string) ([]llm.Message, error) {
	entries, err := a.db.ListMoodEntries(ctx, ownerID, moodSummaryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	// Fetch one extra row so the window still holds historyLimit prior
	// turns after the new turn's own record is dropped.
	history, err := a.db.ListMessages(ctx, ownerID, historyLimit+1, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load message history: %w", err)
	}

	prior := make([]db.Message, 0, len(history))
	for _, m := range history {
		if excludeID != "" && m.ID == excludeID {
			continue
		}
		prior = append(prior, m)
	}
	if len(prior) > historyLimit {
		prior = prior[len(prior)-historyLimit:]
	}

	messages := make([]llm.Message, 0, len(prior)+3)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemInstruction,
	})
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: moodSummary(entries),
	})

	for _, m := range prior {
		role := llm.RoleUser
		if m.Role == db.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: m.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: newContent,
	})

	return messages, nil
}

// moodSummary renders the owner's recent mood entries one line each,
// most recent first. Entries arrive newest-first from the store and
// are kept in that order.
func moodSummary(entries []db.MoodEntry) string {
	if len(entries) == 0 {
		return noMoodHistory
	}

	var b strings.Builder
	b.WriteString("Recent mood check-ins, most recent first:\n")
	for _, e := range entries {
		b.WriteString(e.CreatedAt.Format("2006-01-02"))
		b.WriteString(": ")
		b.WriteString(e.Mood)
		if e.Note != "" {
			b.WriteString(" - ")
			b.WriteString(e.Note)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
