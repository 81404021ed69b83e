// Package diff parses unified-diff text into a structured patch
// representation suitable for similarity scoring.
package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	gitHeaderRe  = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(?: .*)?$`)
	renameFromRe = regexp.MustCompile(`^rename from (.+)$`)
	renameToRe   = regexp.MustCompile(`^rename to (.+)$`)
)

// Parse parses a unified diff into a ParsedPatch.
//
// Empty input is a valid "no changes" patch. File headers
// (`diff --git`, `---`, `+++`, `rename from/to`) determine each file's
// path and change kind; hunk bodies contribute added and removed lines.
// A line that carries the `@@` hunk marker but does not parse as a hunk
// header fails with *MalformedPatchError.
func Parse(text string) (*ParsedPatch, error) {
	patch := &ParsedPatch{}
	if text == "" {
		return patch, nil
	}

	lines := strings.Split(text, "\n")

	var current *fileState
	flush := func() {
		if current != nil {
			appendFile(patch, current.finalize())
			current = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			current = &fileState{}
			if m := gitHeaderRe.FindStringSubmatch(line); m != nil {
				current.oldName = m[1]
				current.newName = m[2]
			}
			i++

		case strings.HasPrefix(line, "--- "):
			if current == nil || len(current.hunks) > 0 {
				// Plain unified diff without a git header line, or the
				// next file section of one.
				flush()
				current = &fileState{}
			}
			current.oldName = parseHeaderPath(line[4:])
			i++
			if i < len(lines) && strings.HasPrefix(lines[i], "+++ ") {
				current.newName = parseHeaderPath(lines[i][4:])
				i++
			}

		case strings.HasPrefix(line, "@@"):
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return nil, &MalformedPatchError{
					LineNumber: i + 1,
					Line:       line,
					Reason:     "unparseable hunk header",
				}
			}
			if current == nil {
				return nil, &MalformedPatchError{
					LineNumber: i + 1,
					Line:       line,
					Reason:     "hunk header before any file header",
				}
			}
			hunk, err := parseHunk(m, lines, &i)
			if err != nil {
				return nil, err
			}
			current.hunks = append(current.hunks, hunk)

		default:
			if current != nil {
				if m := renameFromRe.FindStringSubmatch(line); m != nil {
					current.renameFrom = m[1]
				} else if m := renameToRe.FindStringSubmatch(line); m != nil {
					current.renameTo = m[1]
				}
			}
			i++
		}
	}
	flush()

	return patch, nil
}

// fileState accumulates header and hunk data for one file while its
// section of the diff is being scanned.
type fileState struct {
	oldName    string
	newName    string
	renameFrom string
	renameTo   string
	hunks      []Hunk
}

func (s *fileState) finalize() FileDiff {
	f := FileDiff{Hunks: s.hunks}

	switch {
	case s.renameFrom != "" && s.renameTo != "":
		f.Kind = ChangeRenamed
		f.Path = s.renameTo
		f.OldPath = s.renameFrom
	case s.oldName == "/dev/null":
		f.Kind = ChangeAdded
		f.Path = s.newName
	case s.newName == "/dev/null":
		f.Kind = ChangeDeleted
		f.Path = s.oldName
	case s.oldName != "" && s.newName != "" && s.oldName != s.newName:
		// Header-only rename (`diff --git a/X b/Y` with differing paths).
		f.Kind = ChangeRenamed
		f.Path = s.newName
		f.OldPath = s.oldName
	default:
		f.Kind = ChangeModified
		f.Path = s.newName
		if f.Path == "" {
			f.Path = s.oldName
		}
	}

	return f
}

// appendFile adds f to the patch, merging hunks into an existing entry
// when the same path appears twice so paths stay unique per patch.
func appendFile(p *ParsedPatch, f FileDiff) {
	if f.Path == "" {
		return
	}
	for i := range p.Files {
		if p.Files[i].Path == f.Path {
			p.Files[i].Hunks = append(p.Files[i].Hunks, f.Hunks...)
			return
		}
	}
	p.Files = append(p.Files, f)
}

// parseHeaderPath extracts a path from a `---` or `+++` header value,
// stripping the a/ or b/ prefix git adds.
func parseHeaderPath(s string) string {
	// git appends a tab before timestamps in some diff styles
	if idx := strings.IndexByte(s, '\t'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if s == "/dev/null" {
		return s
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}

// parseHunk parses one hunk starting at the @@ header line, advancing
// *i past all of the hunk's body lines.
func parseHunk(m []string, lines []string, i *int) (Hunk, error) {
	oldStart, err := strconv.Atoi(m[1])
	if err != nil {
		return Hunk{}, &MalformedPatchError{LineNumber: *i + 1, Line: lines[*i], Reason: "non-numeric old start"}
	}
	newStart, err := strconv.Atoi(m[3])
	if err != nil {
		return Hunk{}, &MalformedPatchError{LineNumber: *i + 1, Line: lines[*i], Reason: "non-numeric new start"}
	}

	oldCount, newCount := 1, 1
	if m[2] != "" {
		if oldCount, err = strconv.Atoi(m[2]); err != nil {
			return Hunk{}, &MalformedPatchError{LineNumber: *i + 1, Line: lines[*i], Reason: "non-numeric old count"}
		}
	}
	if m[4] != "" {
		if newCount, err = strconv.Atoi(m[4]); err != nil {
			return Hunk{}, &MalformedPatchError{LineNumber: *i + 1, Line: lines[*i], Reason: "non-numeric new count"}
		}
	}

	hunk := Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}

	*i++ // past the @@ line

	// The header's counts bound the body: removed and context lines
	// consume from the old side, added and context lines from the new
	// side. Without the bound, a following `--- ` file header of a
	// headerless multi-file diff would be read as a removed line.
	oldLeft, newLeft := oldCount, newCount

body:
	for *i < len(lines) && (oldLeft > 0 || newLeft > 0) {
		line := lines[*i]

		if strings.HasPrefix(line, "@@") || strings.HasPrefix(line, "diff --git ") {
			// Counts overstated the body; the next section starts here.
			break
		}
		if strings.HasPrefix(line, `\`) {
			// "\ No newline at end of file"
			*i++
			continue
		}
		if line == "" {
			// An empty context line with its leading space trimmed.
			oldLeft--
			newLeft--
			*i++
			continue
		}

		switch line[0] {
		case '+':
			hunk.AddedLines = append(hunk.AddedLines, line[1:])
			newLeft--
		case '-':
			hunk.RemovedLines = append(hunk.RemovedLines, line[1:])
			oldLeft--
		case ' ':
			oldLeft--
			newLeft--
		default:
			// Start of the next file's headers.
			break body
		}
		*i++
	}

	return hunk, nil
}
