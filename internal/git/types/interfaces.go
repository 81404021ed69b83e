package types

import (
	"context"
)

// Provider represents a git hosting platform the extractor can pull from.
// GitHub is the only implementation today; the interface keeps the
// extraction and evaluation flows testable without network access.
type Provider interface {
	// FetchMergedPullRequests fetches every merged pull request of the
	// repository together with the issues each one closed
	FetchMergedPullRequests(ctx context.Context, repo Repository) ([]PullRequest, error)

	// FetchCommitDiff fetches the unified diff of a single commit
	FetchCommitDiff(ctx context.Context, repo Repository, sha string) (string, error)

	// FetchIssue fetches a single issue by number
	FetchIssue(ctx context.Context, repo Repository, number int) (*Issue, error)

	// Name returns the platform name (e.g., "GitHub")
	Name() string
}
