package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mindful-chat/internal/auth"
	"mindful-chat/internal/logger"
	"mindful-chat/internal/repository/db"
	chatService "mindful-chat/internal/service/chat"
	moodService "mindful-chat/internal/service/mood"
)

// Request/Response types

type ChatRequest struct {
	Content string `json:"content"`
}

type ChatResponse struct {
	UserMessage      *db.Message `json:"userMessage"`
	AssistantMessage *db.Message `json:"assistantMessage"`
}

type MoodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note,omitempty"`
}

type HealthResponse struct {
	OK bool  `json:"ok"`
	TS int64 `json:"ts"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handlers wires HTTP requests to the service layer
type Handlers struct {
	chat  *chatService.Service
	moods *moodService.Service
}

// New creates the API handlers
func New(chat *chatService.Service, moods *moodService.Service) *Handlers {
	return &Handlers{
		chat:  chat,
		moods: moods,
	}
}

// Root is the unauthenticated banner endpoint
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Mindful Chat API"))
}

// Health reports liveness with an epoch-millisecond timestamp
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, HealthResponse{
		OK: true,
		TS: time.Now().UnixMilli(),
	})
}

// Chat handles one exchange: the user's turn in, both persisted turns out
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.chat.SendMessage(r.Context(), chatService.SendMessageRequest{
		OwnerID: ownerID,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, chatService.ErrEmptyContent) {
			h.sendError(w, http.StatusBadRequest, "Content must not be empty", err)
			return
		}
		// Internal detail is logged, never returned to the caller.
		logger.Log.WithError(err).WithField("owner_id", ownerID).Error("Chat exchange failed")
		h.sendError(w, http.StatusInternalServerError, "Failed to generate reply", nil)
		return
	}

	h.sendJSON(w, http.StatusOK, ChatResponse{
		UserMessage:      resp.UserMessage,
		AssistantMessage: resp.AssistantMessage,
	})
}

// ListMessages returns the owner's transcript, oldest first
func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	messages, err := h.chat.Transcript(r.Context(), ownerID)
	if err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Error("Failed to list messages")
		h.sendError(w, http.StatusInternalServerError, "Failed to load messages", nil)
		return
	}
	if messages == nil {
		messages = []db.Message{}
	}

	h.sendJSON(w, http.StatusOK, messages)
}

// ListMoods returns the owner's mood entries, newest first
func (h *Handlers) ListMoods(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	entries, err := h.moods.List(r.Context(), ownerID)
	if err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Error("Failed to list mood entries")
		h.sendError(w, http.StatusInternalServerError, "Failed to load mood entries", nil)
		return
	}
	if entries == nil {
		entries = []db.MoodEntry{}
	}

	h.sendJSON(w, http.StatusOK, entries)
}

// CreateMood records one mood check-in
func (h *Handlers) CreateMood(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.moods.Create(r.Context(), ownerID, req.Mood, req.Note)
	if err != nil {
		if errors.Is(err, moodService.ErrMissingMood) {
			h.sendError(w, http.StatusBadRequest, "Mood is required", err)
			return
		}
		logger.Log.WithError(err).WithField("owner_id", ownerID).Error("Failed to create mood entry")
		h.sendError(w, http.StatusInternalServerError, "Failed to save mood entry", nil)
		return
	}

	h.sendJSON(w, http.StatusCreated, entry)
}

// sendJSON writes a JSON response
func (h *Handlers) sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// sendError sends a standardized JSON error response
func (h *Handlers) sendError(w http.ResponseWriter, status int, message string, err error) {
	errResp := ErrorResponse{
		Code:    status,
		Message: message,
	}
	if err != nil {
		errResp.Error = err.Error()
	}
	h.sendJSON(w, status, errResp)
}
