package github

import (
	"context"
	"fmt"
	"log/slog"

	githubapi "github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"

	"agent-eval/internal/config"
	"agent-eval/internal/git/types"
)

// Provider implements types.Provider against GitHub.
// Uses GraphQL for merged-PR extraction (closing issue references have no
// usable REST equivalent) and REST for raw commit diffs and single issues.
type Provider struct {
	restClient    *githubapi.Client
	graphqlClient *githubv4.Client
}

// NewProvider creates a new GitHub provider
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		restClient:    newRESTClient(cfg.GitHubToken),
		graphqlClient: newGraphQLClient(cfg.GitHubToken),
	}
}

// Name returns the platform name
func (p *Provider) Name() string {
	return "GitHub"
}

type mergedPRsQuery struct {
	Repository struct {
		PullRequests struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Number      int
				Title       string
				URL         string
				MergedAt    githubv4.DateTime
				BaseRefName string
				MergeCommit struct {
					Oid string
				}
				ClosingIssuesReferences struct {
					Nodes []struct {
						Number      int
						Title       string
						Body        string
						URL         string
						State       string
						StateReason string
					}
				} `graphql:"closingIssuesReferences(first: 10)"`
			}
		} `graphql:"pullRequests(first: 100, states: [MERGED], orderBy: {field: UPDATED_AT, direction: DESC}, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// FetchMergedPullRequests fetches all merged pull requests of the repository
// with the issues each one closed, following the cursor until exhausted.
func (p *Provider) FetchMergedPullRequests(ctx context.Context, repo types.Repository) ([]types.PullRequest, error) {
	slog.Debug("Fetching merged pull requests via GraphQL", "repo", repo.FullName())

	var allPRs []types.PullRequest
	var cursor *githubv4.String

	for {
		vars := map[string]interface{}{
			"owner":  githubv4.String(repo.Owner),
			"repo":   githubv4.String(repo.Name),
			"cursor": cursor,
		}

		var query mergedPRsQuery
		if err := p.graphqlClient.Query(ctx, &query, vars); err != nil {
			return nil, fmt.Errorf("failed to fetch merged PRs for %s: %w", repo.FullName(), err)
		}

		for _, node := range query.Repository.PullRequests.Nodes {
			pr := types.PullRequest{
				Number:         node.Number,
				Title:          node.Title,
				URL:            node.URL,
				MergedAt:       node.MergedAt.Time,
				BaseRef:        node.BaseRefName,
				MergeCommitSHA: node.MergeCommit.Oid,
			}
			for _, issue := range node.ClosingIssuesReferences.Nodes {
				pr.Issues = append(pr.Issues, types.Issue{
					Number:      issue.Number,
					Title:       issue.Title,
					Body:        issue.Body,
					URL:         issue.URL,
					State:       issue.State,
					StateReason: issue.StateReason,
				})
			}
			allPRs = append(allPRs, pr)
		}

		if !query.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		cursor = &query.Repository.PullRequests.PageInfo.EndCursor
	}

	slog.Debug("Merged pull request extraction complete", "repo", repo.FullName(), "count", len(allPRs))
	return allPRs, nil
}

// FetchCommitDiff fetches the raw unified diff of a single commit via REST.
// For merge commits GitHub returns the combined diff against the first
// parent, which is the full change set the pull request landed.
func (p *Provider) FetchCommitDiff(ctx context.Context, repo types.Repository, sha string) (string, error) {
	slog.Debug("Fetching commit diff", "repo", repo.FullName(), "sha", sha)

	diff, _, err := p.restClient.Repositories.GetCommitRaw(ctx, repo.Owner, repo.Name, sha, githubapi.RawOptions{Type: githubapi.Diff})
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff for commit %s in %s: %w", sha, repo.FullName(), err)
	}

	return diff, nil
}

// FetchIssue fetches a single issue by number via REST
func (p *Provider) FetchIssue(ctx context.Context, repo types.Repository, number int) (*types.Issue, error) {
	issue, _, err := p.restClient.Issues.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d in %s: %w", number, repo.FullName(), err)
	}

	return &types.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		URL:    issue.GetHTMLURL(),
		State:  issue.GetState(),
	}, nil
}
