package evaluation

import "sort"

// Report is the outcome of evaluating an agent diff against a
// reference diff. It is a value object: the engine keeps no reference
// to it after returning.
type Report struct {
	Score float64 `json:"score"`

	FilesMatched       []string `json:"files_matched"`
	FilesAgentOnly     []string `json:"files_extra"`
	FilesReferenceOnly []string `json:"files_missed"`

	// PerFileScores covers matched files only; the two *Only sets carry
	// the rest of the partition.
	PerFileScores map[string]float64 `json:"per_file_scores"`
}

// buildReport aggregates the file partition and per-file scores into
// the final report.
//
// The reference patch defines the expected scope: every reference file
// carries weight 1, contributing its per-file score when matched and
// 0.0 when the agent missed it. Agent-only files are reported but do
// not reduce the score, since an agent may legitimately touch a helper
// file the reference did not. An empty reference scores 1.0 only
// against an empty agent patch.
func buildReport(matched []Match, agentOnly, referenceOnly []string, perFile map[string]float64) *Report {
	report := &Report{
		FilesMatched:       sortedCopy(matchPaths(matched)),
		FilesAgentOnly:     sortedCopy(agentOnly),
		FilesReferenceOnly: sortedCopy(referenceOnly),
		PerFileScores:      perFile,
	}

	referenceFiles := len(matched) + len(referenceOnly)
	if referenceFiles == 0 {
		if len(agentOnly) == 0 {
			report.Score = 1.0
		}
		return report
	}

	var sum float64
	for _, score := range perFile {
		sum += score
	}
	report.Score = sum / float64(referenceFiles)

	return report
}

func matchPaths(matched []Match) []string {
	paths := make([]string, len(matched))
	for i, m := range matched {
		paths[i] = m.Path
	}
	return paths
}

func sortedCopy(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
