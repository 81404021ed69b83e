package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.DBPath != "data/agent-eval" {
		t.Errorf("DBPath = %q, want data/agent-eval", cfg.DBPath)
	}
	if cfg.PromptMode != "summary" {
		t.Errorf("PromptMode = %q, want summary", cfg.PromptMode)
	}
	if cfg.LLMEnabled() {
		t.Error("LLMEnabled() = true with no provider configured")
	}
	if cfg.ApproachAnalysis {
		t.Error("ApproachAnalysis = true, want false by default")
	}
	if cfg.ModelMaxResponseTokens != 2000 {
		t.Errorf("ModelMaxResponseTokens = %d, want 2000", cfg.ModelMaxResponseTokens)
	}
	if cfg.ModelTimeoutSeconds != 120 {
		t.Errorf("ModelTimeoutSeconds = %d, want 120", cfg.ModelTimeoutSeconds)
	}
}

func TestLoadProviderConfig(t *testing.T) {
	t.Setenv("AEP_MODEL_PROVIDER", "claude")
	t.Setenv("AEP_CLAUDE_MODEL_API", "https://llm.example.com/v1")
	t.Setenv("AEP_CLAUDE_MODEL_ID", "claude-test")
	t.Setenv("AEP_CLAUDE_USER_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if !cfg.LLMEnabled() {
		t.Error("LLMEnabled() = false with a provider configured")
	}
	if cfg.ModelAPI != "https://llm.example.com/v1" {
		t.Errorf("ModelAPI = %q, want the claude endpoint", cfg.ModelAPI)
	}
	if cfg.ModelID != "claude-test" {
		t.Errorf("ModelID = %q, want claude-test", cfg.ModelID)
	}
}

func TestLoadMissingProviderFields(t *testing.T) {
	t.Setenv("AEP_MODEL_PROVIDER", "gemini")
	t.Setenv("AEP_GEMINI_MODEL_API", "https://llm.example.com/v1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted a provider with missing fields")
	}
	if !strings.Contains(err.Error(), "AEP_GEMINI_MODEL_ID") {
		t.Errorf("error = %v, want mention of AEP_GEMINI_MODEL_ID", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid log format", "AEP_LOG_FORMAT", "xml"},
		{"invalid log level", "AEP_LOG_LEVEL", "verbose"},
		{"invalid prompt mode", "AEP_PROMPT_MODE", "terse"},
		{"invalid provider", "AEP_MODEL_PROVIDER", "gpt"},
		{"non-integer max tokens", "AEP_MODEL_MAX_RESPONSE_TOKENS", "lots"},
		{"out of range max tokens", "AEP_MODEL_MAX_RESPONSE_TOKENS", "0"},
		{"non-boolean approach analysis", "AEP_APPROACH_ANALYSIS", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadApproachAnalysisRequiresProvider(t *testing.T) {
	t.Setenv("AEP_APPROACH_ANALYSIS", "true")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted approach analysis without a provider")
	}
}
