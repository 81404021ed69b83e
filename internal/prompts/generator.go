// Package prompts turns the issues a pull request closed into the task
// prompt a coding agent would be given for that PR.
package prompts

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agent-eval/internal/git/types"
	"agent-eval/internal/llm/prompts/system"
	"agent-eval/internal/llm/providers"
)

// Generation modes
const (
	ModeSummary = "summary"
	ModeRaw     = "raw"
)

// ErrNoLinkedIssues is returned for pull requests that closed no issues;
// without issue text there is nothing to build a prompt from.
var ErrNoLinkedIssues = errors.New("pull request has no linked issues")

// Generator builds prompts from linked issues. The LLM client is
// optional: without one, summary mode falls back to a naive title join.
type Generator struct {
	llm providers.LLMClient
}

// NewGenerator creates a prompt generator. Pass nil to run without an LLM.
func NewGenerator(client providers.LLMClient) *Generator {
	return &Generator{llm: client}
}

// Generate builds the prompt for one pull request in the given mode
func (g *Generator) Generate(pr types.PullRequest, mode string) (string, error) {
	if !pr.HasLinkedIssues() {
		return "", fmt.Errorf("PR #%d: %w", pr.Number, ErrNoLinkedIssues)
	}

	switch mode {
	case ModeRaw:
		return rawPrompt(pr.Issues), nil
	case ModeSummary:
		return g.summaryPrompt(pr), nil
	default:
		return "", fmt.Errorf("unsupported prompt mode: %s", mode)
	}
}

// rawPrompt concatenates the issues verbatim, separated by a divider
func rawPrompt(issues []types.Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		body := strings.TrimSpace(issue.Body)
		if body == "" {
			body = "<no description>"
		}
		parts[i] = fmt.Sprintf("#%d: %s\n%s", issue.Number, issue.Title, body)
	}
	return strings.Join(parts, "\n---\n")
}

// summaryPrompt produces a single task statement. When an LLM is
// configured it rewrites the raw issue text; any LLM failure falls back
// to the naive join so generation always succeeds.
func (g *Generator) summaryPrompt(pr types.PullRequest) string {
	naive := naiveSummary(pr.Issues)
	if g.llm == nil {
		return naive
	}

	rewritten, err := g.llm.Complete(system.GetSystemPrompt(system.TaskSummarize), rawPrompt(pr.Issues))
	if err != nil {
		slog.Warn("LLM summary failed, using naive summary", "pr", pr.Number, "error", err)
		return naive
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return naive
	}
	return rewritten
}

// naiveSummary joins issue titles into one imperative-ish statement
func naiveSummary(issues []types.Issue) string {
	if len(issues) == 1 {
		return ensureSentence(issues[0].Title)
	}

	titles := make([]string, len(issues))
	for i, issue := range issues {
		titles[i] = strings.TrimSpace(issue.Title)
	}
	return "Implement the following: " + strings.Join(titles, "; and ") + "."
}

func ensureSentence(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return title
	}
	if strings.HasSuffix(title, ".") || strings.HasSuffix(title, "!") || strings.HasSuffix(title, "?") {
		return title
	}
	return title + "."
}
