package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mindful-chat/internal/api/handlers"
	"mindful-chat/internal/auth"
	"mindful-chat/internal/config"
	"mindful-chat/internal/repository/db"
	chatService "mindful-chat/internal/service/chat"
	"mindful-chat/internal/service/llm"
	moodService "mindful-chat/internal/service/mood"
	"mindful-chat/internal/testutil"
)

const testSecret = "api-test-secret-key-long-enough-to-pass"

type testServer struct {
	router  http.Handler
	mockDB  *testutil.MockDatabase
	mockLLM *testutil.MockCompletionClient
}

func newTestServer() *testServer {
	mockDB := &testutil.MockDatabase{}
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return "assistant reply", nil
		},
	}

	cfg := &config.AppConfig{
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
		Identity: config.IdentityConfig{SecretKey: []byte(testSecret)},
	}

	chat := chatService.NewService(mockDB, mockLLM, &testutil.MockFilter{}, "crisis reply")
	moods := moodService.NewService(mockDB)
	router := NewRouter(cfg, handlers.New(chat, moods), auth.NewVerifier(cfg.Identity))

	return &testServer{router: router, mockDB: mockDB, mockLLM: mockLLM}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, ownerID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ownerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

func TestRoot(t *testing.T) {
	ts := newTestServer()
	rec := ts.request(t, http.MethodGet, "/", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Mindful Chat API" {
		t.Errorf("Expected banner text, got %q", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	before := time.Now().UnixMilli()
	rec := ts.request(t, http.MethodGet, "/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp handlers.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.OK {
		t.Error("Expected ok=true")
	}
	if resp.TS < before || resp.TS > time.Now().UnixMilli() {
		t.Errorf("Expected epoch-ms timestamp near now, got %d", resp.TS)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/messages"},
		{http.MethodGet, "/moods"},
		{http.MethodPost, "/moods"},
		{http.MethodPost, "/chat"},
	}

	for _, route := range routes {
		rec := ts.request(t, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", route.method, route.path, rec.Code)
		}
	}

	// No side effects before authentication.
	if len(ts.mockDB.CreatedMessages) != 0 {
		t.Errorf("Expected zero persisted records, got %d", len(ts.mockDB.CreatedMessages))
	}
}

func TestChat_Success(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/chat", tokenFor(t, "u1"), handlers.ChatRequest{
		Content: "I feel anxious today",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.UserMessage == nil || resp.UserMessage.Content != "I feel anxious today" {
		t.Errorf("Unexpected user message: %+v", resp.UserMessage)
	}
	if resp.AssistantMessage == nil || resp.AssistantMessage.Content != "assistant reply" {
		t.Errorf("Unexpected assistant message: %+v", resp.AssistantMessage)
	}
	if resp.UserMessage != nil && resp.UserMessage.OwnerID != "u1" {
		t.Errorf("Expected owner from token, got %q", resp.UserMessage.OwnerID)
	}
}

func TestChat_EmptyContent(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/chat", tokenFor(t, "u1"), handlers.ChatRequest{
		Content: "   ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for whitespace-only content, got %d", rec.Code)
	}
	if len(ts.mockDB.CreatedMessages) != 0 {
		t.Errorf("Expected zero persisted records, got %d", len(ts.mockDB.CreatedMessages))
	}
}

func TestChat_ProviderFailureIsGeneric(t *testing.T) {
	ts := newTestServer()
	ts.mockLLM.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "", errors.New("upstream auth failure: key sk-12345 rejected")
	}

	rec := ts.request(t, http.MethodPost, "/chat", tokenFor(t, "u1"), handlers.ChatRequest{
		Content: "hello",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}

	// Internal detail must not leak to the caller.
	if bytes.Contains(rec.Body.Bytes(), []byte("sk-12345")) {
		t.Error("Expected provider error detail to be withheld from the response")
	}
}

func TestListMessages(t *testing.T) {
	ts := newTestServer()
	ts.mockDB.ListMessagesFunc = func(ctx context.Context, ownerID string, limit int, ascending bool) ([]db.Message, error) {
		if ownerID != "u1" {
			t.Errorf("Expected owner u1 from token, got %q", ownerID)
		}
		return []db.Message{
			{ID: "m1", OwnerID: "u1", Role: db.RoleUser, Content: "hi"},
			{ID: "m2", OwnerID: "u1", Role: db.RoleAssistant, Content: "hello"},
		}, nil
	}

	rec := ts.request(t, http.MethodGet, "/messages", tokenFor(t, "u1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var messages []db.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(messages))
	}
}

func TestListMessages_EmptyIsArray(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/messages", tokenFor(t, "u1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); !bytes.Equal(body, []byte("[]")) {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestCreateMood(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/moods", tokenFor(t, "u1"), handlers.MoodRequest{
		Mood: "😊",
		Note: "sunny day",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var entry db.MoodEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if entry.Mood != "😊" || entry.Note != "sunny day" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
}

func TestCreateMood_MissingMood(t *testing.T) {
	ts := newTestServer()

	created := false
	ts.mockDB.CreateMoodEntryFunc = func(ctx context.Context, ownerID, mood, note string) (*db.MoodEntry, error) {
		created = true
		return nil, nil
	}

	rec := ts.request(t, http.MethodPost, "/moods", tokenFor(t, "u1"), handlers.MoodRequest{
		Note: "note without mood",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if created {
		t.Error("Expected no store write for an invalid check-in")
	}
}

func TestListMoods(t *testing.T) {
	ts := newTestServer()
	ts.mockDB.ListMoodEntriesFunc = func(ctx context.Context, ownerID string, limit int) ([]db.MoodEntry, error) {
		return []db.MoodEntry{
			{ID: "e2", Mood: "😟"},
			{ID: "e1", Mood: "😊"},
		}, nil
	}

	rec := ts.request(t, http.MethodGet, "/moods", tokenFor(t, "u1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var entries []db.MoodEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "e2" {
		t.Errorf("Expected newest-first entries, got %+v", entries)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
