package system

import (
	"strings"
	"testing"
)

func TestGetSystemPrompt(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		contains string
	}{
		{"summarize task", TaskSummarize, "task statement"},
		{"approach task", TaskApproach, "unified diffs"},
		{"unknown falls back to summarizer", "review", "task statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := GetSystemPrompt(tt.task)
			if prompt == "" {
				t.Fatal("GetSystemPrompt returned empty prompt")
			}
			if !strings.Contains(prompt, tt.contains) {
				t.Errorf("GetSystemPrompt(%q) missing expected phrase %q", tt.task, tt.contains)
			}
		})
	}
}

func TestPromptsDiffer(t *testing.T) {
	if GetSystemPrompt(TaskSummarize) == GetSystemPrompt(TaskApproach) {
		t.Error("summarize and approach tasks returned the same prompt")
	}
}
