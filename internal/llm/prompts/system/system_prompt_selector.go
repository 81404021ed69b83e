package system

import (
	_ "embed"
	"log/slog"
)

// Task identifiers for system prompt selection
const (
	TaskSummarize = "summarize"
	TaskApproach  = "approach"
)

//go:embed summarizer.md
var summarizerPrompt string

//go:embed approach_analyst.md
var approachAnalystPrompt string

// GetSystemPrompt returns the system prompt for the given task
func GetSystemPrompt(task string) string {
	switch task {
	case TaskSummarize:
		return summarizerPrompt
	case TaskApproach:
		return approachAnalystPrompt
	default:
		slog.Warn("Unknown system prompt task, falling back to summarizer",
			"task", task,
			"supported_tasks", []string{TaskSummarize, TaskApproach})
		return summarizerPrompt
	}
}
