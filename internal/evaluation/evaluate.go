// Package evaluation scores an agent-produced patch against the
// reference patch of the pull request it was meant to reproduce.
//
// The whole engine is pure, deterministic computation: no I/O, no
// shared state, no randomness. Evaluate is safe to call from any number
// of goroutines and returns bit-identical reports for identical inputs.
package evaluation

import (
	"agent-eval/internal/diff"
)

// Evaluate parses both diffs, reconciles their file sets, aligns the
// matched files, and aggregates the result into a Report.
//
// A diff that fails to parse yields an *InputError naming the side at
// fault; no partial scoring is attempted, and no retry would help since
// parsing is deterministic.
func Evaluate(agentDiff, referenceDiff string) (*Report, error) {
	agent, err := diff.Parse(agentDiff)
	if err != nil {
		return nil, &InputError{Side: SideAgent, Err: err}
	}

	reference, err := diff.Parse(referenceDiff)
	if err != nil {
		return nil, &InputError{Side: SideReference, Err: err}
	}

	matched, agentOnly, referenceOnly := Reconcile(agent, reference)

	perFile := make(map[string]float64, len(matched))
	for _, m := range matched {
		perFile[m.Path] = AlignFiles(m.Agent, m.Reference)
	}

	return buildReport(matched, agentOnly, referenceOnly, perFile), nil
}
