package types

import (
	"fmt"
	"regexp"
	"time"
)

// Repository represents basic repository information
type Repository struct {
	Owner string
	Name  string
	URL   string
}

// FullName returns the "owner/name" form used in log lines and storage keys
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Issue represents an issue closed by a merged pull request
type Issue struct {
	Number      int
	Title       string
	Body        string
	URL         string
	State       string // OPEN or CLOSED
	StateReason string // COMPLETED, NOT_PLANNED, etc.
}

// PullRequest represents a merged pull request with the issues it closed.
// The merge commit SHA is what the diff fetch keys on; pull requests merged
// without a merge commit (rare, but possible with some merge strategies)
// carry an empty SHA and are skipped at evaluation time.
type PullRequest struct {
	Number         int
	Title          string
	URL            string
	MergedAt       time.Time
	BaseRef        string
	MergeCommitSHA string
	Issues         []Issue
}

// HasLinkedIssues reports whether at least one issue was closed by this PR
func (p PullRequest) HasLinkedIssues() bool {
	return len(p.Issues) > 0
}

// Pre-compiled regex for repository URLs.
// Accepts "https://github.com/<owner>/<repo>" with an optional trailing slash
// or .git suffix; anything deeper (tree, pull, compare paths) is rejected.
var repoURLPattern = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts owner and name from a GitHub repository URL
func ParseRepoURL(url string) (Repository, error) {
	matches := repoURLPattern.FindStringSubmatch(url)
	if matches == nil {
		return Repository{}, fmt.Errorf("invalid repository URL %q: expected https://github.com/<owner>/<repo>", url)
	}

	return Repository{
		Owner: matches[1],
		Name:  matches[2],
		URL:   fmt.Sprintf("https://github.com/%s/%s", matches[1], matches[2]),
	}, nil
}
