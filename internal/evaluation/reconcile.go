package evaluation

import (
	"agent-eval/internal/diff"
)

// Match pairs one agent file with one reference file that represent the
// same file lineage. Path is the canonical path the pair is reported
// under.
type Match struct {
	Path      string
	Agent     *diff.FileDiff
	Reference *diff.FileDiff
}

// Reconcile partitions the files touched by the two patches into
// matched pairs, agent-only paths, and reference-only paths.
//
// Matching is by exact path equality first. Files left unmatched are
// then paired through rename lineage: a file renamed in one patch
// matches the other patch's file at its pre-rename path. Exact matches
// always win, so a post-rename path that also exists as an independent
// file in the other patch is never double counted.
func Reconcile(agent, reference *diff.ParsedPatch) (matched []Match, agentOnly, referenceOnly []string) {
	agentUsed := make([]bool, len(agent.Files))
	refUsed := make([]bool, len(reference.Files))

	refByPath := make(map[string]int, len(reference.Files))
	for i := range reference.Files {
		refByPath[reference.Files[i].Path] = i
	}

	// Pass 1: exact path equality.
	for i := range agent.Files {
		if j, ok := refByPath[agent.Files[i].Path]; ok && !refUsed[j] {
			matched = append(matched, Match{
				Path:      agent.Files[i].Path,
				Agent:     &agent.Files[i],
				Reference: &reference.Files[j],
			})
			agentUsed[i] = true
			refUsed[j] = true
		}
	}

	// Pass 2: rename lineage, in both directions.
	for i := range agent.Files {
		if agentUsed[i] {
			continue
		}
		af := &agent.Files[i]

		for j := range reference.Files {
			if refUsed[j] {
				continue
			}
			rf := &reference.Files[j]

			if !sameLineage(af, rf) {
				continue
			}
			matched = append(matched, Match{
				Path:      canonicalPath(af, rf),
				Agent:     af,
				Reference: rf,
			})
			agentUsed[i] = true
			refUsed[j] = true
			break
		}
	}

	for i := range agent.Files {
		if !agentUsed[i] {
			agentOnly = append(agentOnly, agent.Files[i].Path)
		}
	}
	for j := range reference.Files {
		if !refUsed[j] {
			referenceOnly = append(referenceOnly, reference.Files[j].Path)
		}
	}

	return matched, agentOnly, referenceOnly
}

// sameLineage reports whether two unmatched files represent the same
// file through a rename on at least one side.
func sameLineage(a, b *diff.FileDiff) bool {
	if a.Kind == diff.ChangeRenamed && a.OldPath == b.Path {
		return true
	}
	if b.Kind == diff.ChangeRenamed && b.OldPath == a.Path {
		return true
	}
	// Renamed on both sides from the same origin.
	if a.Kind == diff.ChangeRenamed && b.Kind == diff.ChangeRenamed && a.OldPath == b.OldPath {
		return true
	}
	return false
}

// canonicalPath picks the path a rename-matched pair is reported under:
// the renamed side's post-image path, or the lexicographically smaller
// one when both sides renamed. The choice is side-symmetric so the file
// partition stays symmetric under argument swap.
func canonicalPath(a, b *diff.FileDiff) string {
	aRenamed := a.Kind == diff.ChangeRenamed
	bRenamed := b.Kind == diff.ChangeRenamed

	switch {
	case aRenamed && !bRenamed:
		return a.Path
	case bRenamed && !aRenamed:
		return b.Path
	case a.Path < b.Path:
		return a.Path
	default:
		return b.Path
	}
}
