package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agent-eval/internal/config"
	llmerrors "agent-eval/internal/llm/errors"
)

func claudeTestConfig(api string) *config.Config {
	return &config.Config{
		ModelProvider:          "claude",
		ModelAPI:               api,
		ModelID:                "claude-test",
		ModelUserKey:           "secret",
		ModelMaxResponseTokens: 100,
		ModelTimeoutSeconds:    5,
	}
}

func TestClaudeComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("Expected Authorization header with Bearer token")
		}

		var req ClaudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.System != "system text" {
			t.Errorf("System = %q, want the provided system prompt", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content[0].Text != "user text" {
			t.Errorf("Messages = %+v, want single user message", req.Messages)
		}

		response := ClaudeResponse{
			Content: []ClaudeContent{{Type: "text", Text: "completion"}},
			Usage:   ClaudeUsage{InputTokens: 10, OutputTokens: 5},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClaude(claudeTestConfig(server.URL))

	result, err := client.Complete("system text", "user text")
	if err != nil {
		t.Fatalf("Complete() returned error: %v", err)
	}
	if result != "completion" {
		t.Errorf("Complete() = %q, want %q", result, "completion")
	}
}

func TestClaudeComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClaude(claudeTestConfig(server.URL))

	if _, err := client.Complete("system", "user"); err == nil {
		t.Error("Complete() accepted a 500 response")
	}
}

func TestClaudeComplete_ContextWindowError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte(`{"error": "prompt is too long"}`))
	}))
	defer server.Close()

	client := NewClaude(claudeTestConfig(server.URL))

	_, err := client.Complete("system", "user")
	if err == nil {
		t.Fatal("Complete() accepted an oversized prompt response")
	}

	var cwErr *llmerrors.ContextWindowError
	if !errors.As(err, &cwErr) {
		t.Fatalf("error type = %T, want *ContextWindowError", err)
	}
	if cwErr.Provider != "Claude" {
		t.Errorf("Provider = %q, want Claude", cwErr.Provider)
	}
}

func TestClaudeComplete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ClaudeResponse{})
	}))
	defer server.Close()

	client := NewClaude(claudeTestConfig(server.URL))

	if _, err := client.Complete("system", "user"); err == nil {
		t.Error("Complete() accepted an empty content response")
	}
}
