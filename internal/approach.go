package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	llmerrors "agent-eval/internal/llm/errors"
	"agent-eval/internal/llm/prompts/system"
)

// Diff truncation bounds for the approach analysis prompt. Raw PR diffs
// can run to tens of thousands of lines; the analysis only needs enough
// of each file to characterize the approach.
const (
	approachMaxLines        = 2000
	approachRetryMaxLines   = 500
	truncationMarkerPattern = "... [%d lines truncated] ..."
)

// analyzeApproach asks the LLM to compare the two diffs. It is best
// effort: the similarity score never depends on it, so any failure is
// logged and an empty analysis returned.
func (p *Platform) analyzeApproach(_ context.Context, agentDiff, referenceDiff string) string {
	analysis, err := p.requestApproachAnalysis(agentDiff, referenceDiff, approachMaxLines)

	// One retry with much harder truncation when the prompt blew the window
	var cwErr *llmerrors.ContextWindowError
	if errors.As(err, &cwErr) {
		slog.Debug("Approach analysis hit the context window, retrying truncated", "provider", cwErr.Provider)
		analysis, err = p.requestApproachAnalysis(agentDiff, referenceDiff, approachRetryMaxLines)
	}

	if err != nil {
		slog.Warn("Approach analysis failed", "error", err)
		return ""
	}
	return strings.TrimSpace(analysis)
}

func (p *Platform) requestApproachAnalysis(agentDiff, referenceDiff string, maxLines int) (string, error) {
	userPrompt := fmt.Sprintf("## Agent diff\n\n```diff\n%s\n```\n\n## Reference diff\n\n```diff\n%s\n```",
		truncateDiff(agentDiff, maxLines),
		truncateDiff(referenceDiff, maxLines))

	return p.llmClient.Complete(system.GetSystemPrompt(system.TaskApproach), userPrompt)
}

// truncateDiff keeps the head and tail of an oversized diff, replacing
// the middle with a marker naming how many lines were cut
func truncateDiff(diff string, maxLines int) string {
	lines := strings.Split(diff, "\n")
	if len(lines) <= maxLines {
		return diff
	}

	keepStart := maxLines * 2 / 3
	keepEnd := maxLines - keepStart
	cut := len(lines) - keepStart - keepEnd

	var b strings.Builder
	b.WriteString(strings.Join(lines[:keepStart], "\n"))
	b.WriteString("\n" + fmt.Sprintf(truncationMarkerPattern, cut) + "\n")
	b.WriteString(strings.Join(lines[len(lines)-keepEnd:], "\n"))
	return b.String()
}
