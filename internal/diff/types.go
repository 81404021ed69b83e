package diff

// ChangeKind classifies how a file was changed within a patch.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeAdded
	ChangeDeleted
	ChangeRenamed
)

// String returns the lowercase name used in reports and JSON payloads.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Hunk is one contiguous block of changed lines within a file's diff.
// Context lines count toward OldCount/NewCount but are not retained;
// scoring only needs the added and removed content.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int

	AddedLines   []string
	RemovedLines []string
}

// FileDiff holds one file's changes within a patch.
// Path is the post-image path; for deletions it falls back to the
// pre-image path. OldPath is set only for renames.
type FileDiff struct {
	Path    string
	OldPath string
	Kind    ChangeKind
	Hunks   []Hunk
}

// AddedLines returns the file's added lines concatenated across all
// hunks, in order.
func (f *FileDiff) AddedLines() []string {
	var lines []string
	for _, h := range f.Hunks {
		lines = append(lines, h.AddedLines...)
	}
	return lines
}

// RemovedLines returns the file's removed lines concatenated across all
// hunks, in order.
func (f *FileDiff) RemovedLines() []string {
	var lines []string
	for _, h := range f.Hunks {
		lines = append(lines, h.RemovedLines...)
	}
	return lines
}

// IsPureRename reports whether the file is a rename with no content
// changes.
func (f *FileDiff) IsPureRename() bool {
	if f.Kind != ChangeRenamed {
		return false
	}
	for _, h := range f.Hunks {
		if len(h.AddedLines) > 0 || len(h.RemovedLines) > 0 {
			return false
		}
	}
	return true
}

// ParsedPatch is the structured form of one unified-diff submission.
// File paths are unique within a patch; repeated headers for the same
// path are merged during parsing. Instances are immutable after Parse
// returns.
type ParsedPatch struct {
	Files []FileDiff
}

// File returns the FileDiff for path, or nil if the patch does not
// touch it.
func (p *ParsedPatch) File(path string) *FileDiff {
	for i := range p.Files {
		if p.Files[i].Path == path {
			return &p.Files[i]
		}
	}
	return nil
}
