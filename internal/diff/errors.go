package diff

import "fmt"

// MalformedPatchError reports a diff line that violates the unified-diff
// grammar. Parsing stops at the first such line rather than skipping it,
// since a silently broken parse would surface as a misleadingly low
// similarity score downstream.
type MalformedPatchError struct {
	LineNumber int    // 1-based line number within the diff text
	Line       string // the offending line
	Reason     string
}

func (e *MalformedPatchError) Error() string {
	return fmt.Sprintf("malformed patch at line %d: %s (%q)", e.LineNumber, e.Reason, e.Line)
}
