package evaluation

import (
	"agent-eval/internal/diff"
)

// AlignFiles computes the similarity of two matched files in [0.0, 1.0].
//
// Added lines are concatenated across hunks into one bag per side, and
// likewise for removed lines; hunk boundaries are deliberately ignored
// so that reformatting which only shifts hunk splits does not change
// the score. Each side is compared with a multiset Dice coefficient and
// the file score is the unweighted average of the added-side and
// removed-side scores.
//
// When neither patch has any content lines for the file, the score is
// 1.0 for a pure rename on both sides and 0.0 otherwise: with no
// comparable evidence the conservative default is divergence.
func AlignFiles(agent, reference *diff.FileDiff) float64 {
	agentAdded := agent.AddedLines()
	agentRemoved := agent.RemovedLines()
	refAdded := reference.AddedLines()
	refRemoved := reference.RemovedLines()

	if len(agentAdded)+len(agentRemoved)+len(refAdded)+len(refRemoved) == 0 {
		if agent.IsPureRename() && reference.IsPureRename() {
			return 1.0
		}
		return 0.0
	}

	added := multisetDice(agentAdded, refAdded)
	removed := multisetDice(agentRemoved, refRemoved)
	return (added + removed) / 2
}

// multisetDice computes the Dice coefficient over two bags of lines:
// 2*|intersection| / (|a|+|b|), where the intersection counts each
// line's minimum multiplicity across the two bags. Two empty bags are
// in perfect agreement and score 1.0.
func multisetDice(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	counts := make(map[string]int, len(a))
	for _, line := range a {
		counts[line]++
	}

	intersection := 0
	for _, line := range b {
		if counts[line] > 0 {
			counts[line]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(a)+len(b))
}
