package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agent-eval/internal/config"
	"agent-eval/internal/evaluation"
	"agent-eval/internal/git/github"
	"agent-eval/internal/git/types"
	"agent-eval/internal/llm/providers"
	"agent-eval/internal/prompts"
	"agent-eval/internal/store"
)

// Platform wires extraction, prompt generation and evaluation together.
// The HTTP server and the CLI modes are both thin layers over it.
type Platform struct {
	provider  types.Provider
	store     *store.Store
	llmClient providers.LLMClient // nil when no provider is configured
	generator *prompts.Generator
	config    *config.Config
}

// New creates the platform from configuration, opening the embedded
// database and, when configured, the LLM client.
func New(cfg *config.Config) (*Platform, error) {
	st, err := store.Open(store.Config{Path: cfg.DBPath, Logger: slog.Default()})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	var llmClient providers.LLMClient
	if cfg.LLMEnabled() {
		llmClient, err = providers.NewClient(cfg)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	}

	return NewWithComponents(cfg, st, github.NewProvider(cfg), llmClient), nil
}

// NewWithComponents creates the platform from pre-built components.
// Tests use it to inject an in-memory store and a fake git provider.
func NewWithComponents(cfg *config.Config, st *store.Store, provider types.Provider, llmClient providers.LLMClient) *Platform {
	return &Platform{
		provider:  provider,
		store:     st,
		llmClient: llmClient,
		generator: prompts.NewGenerator(llmClient),
		config:    cfg,
	}
}

// Store exposes the underlying store for read-only HTTP handlers
func (p *Platform) Store() *store.Store {
	return p.store
}

// Close releases the platform's resources
func (p *Platform) Close() error {
	return p.store.Close()
}

// Extract pulls every merged PR of the repository together with the
// issues each one closed, and stores the result as a new dataset.
func (p *Platform) Extract(ctx context.Context, repoURL string) (*store.Dataset, error) {
	repo, err := types.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting dataset extraction", "repo", repo.FullName(), "platform", p.provider.Name())

	pairs, err := p.provider.FetchMergedPullRequests(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to extract from %s: %w", repo.FullName(), err)
	}

	issueCount := 0
	for _, pr := range pairs {
		issueCount += len(pr.Issues)
	}

	dataset := &store.Dataset{
		ID:         uuid.NewString(),
		RepoURL:    repo.URL,
		Owner:      repo.Owner,
		Name:       repo.Name,
		CreatedAt:  time.Now().UTC(),
		PRCount:    len(pairs),
		IssueCount: issueCount,
	}

	if err := p.store.SaveDataset(dataset, pairs); err != nil {
		return nil, err
	}

	slog.Info("Dataset extraction complete",
		"dataset_id", dataset.ID,
		"repo", repo.FullName(),
		"prs", dataset.PRCount,
		"issues", dataset.IssueCount)

	return dataset, nil
}

// FetchIssue fetches one issue of a repository live from the git
// provider. Useful for inspecting an issue's current state and body
// without re-extracting the whole dataset.
func (p *Platform) FetchIssue(ctx context.Context, owner, name string, number int) (*types.Issue, error) {
	repo := types.Repository{
		Owner: owner,
		Name:  name,
		URL:   fmt.Sprintf("https://github.com/%s/%s", owner, name),
	}

	issue, err := p.provider.FetchIssue(ctx, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d from %s: %w", number, repo.FullName(), err)
	}
	return issue, nil
}

// GeneratePrompts builds and stores a prompt for every PR in the dataset
// that closed at least one issue. PRs without linked issues are skipped:
// there is no task text to derive a prompt from.
//
// An empty mode falls back to the configured default. Generation runs
// concurrently since summary mode may call the LLM once per PR.
func (p *Platform) GeneratePrompts(ctx context.Context, datasetID, mode string) ([]store.PromptRecord, error) {
	if mode == "" {
		mode = p.config.PromptMode
	}

	pairs, err := p.store.GetPairs(datasetID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var records []store.PromptRecord
	skipped := 0

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(10)

	for _, pr := range pairs {
		if !pr.HasLinkedIssues() {
			skipped++
			continue
		}

		g.Go(func() error {
			text, err := p.generator.Generate(pr, mode)
			if err != nil {
				return fmt.Errorf("failed to generate prompt for PR #%d: %w", pr.Number, err)
			}

			record := store.PromptRecord{
				DatasetID:   datasetID,
				PRNumber:    pr.Number,
				Mode:        mode,
				Text:        text,
				GeneratedAt: time.Now().UTC(),
			}
			if err := p.store.SavePrompt(&record); err != nil {
				return err
			}

			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].PRNumber < records[j].PRNumber })

	slog.Info("Prompt generation complete",
		"dataset_id", datasetID,
		"mode", mode,
		"generated", len(records),
		"skipped_without_issues", skipped)

	return records, nil
}

// EvaluateDiff scores an agent diff against a reference diff, optionally
// runs the LLM approach analysis, and persists the result.
func (p *Platform) EvaluateDiff(ctx context.Context, agentDiff, referenceDiff string) (*store.EvaluationRecord, error) {
	return p.evaluate(ctx, agentDiff, referenceDiff, "", 0)
}

// EvaluatePR scores an agent diff against the merge-commit diff of one
// PR in a stored dataset.
func (p *Platform) EvaluatePR(ctx context.Context, datasetID string, prNumber int, agentDiff string) (*store.EvaluationRecord, error) {
	dataset, err := p.store.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}

	pairs, err := p.store.GetPairs(datasetID)
	if err != nil {
		return nil, err
	}

	var target *types.PullRequest
	for i := range pairs {
		if pairs[i].Number == prNumber {
			target = &pairs[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: PR #%d in dataset %s", store.ErrNotFound, prNumber, datasetID)
	}
	if target.MergeCommitSHA == "" {
		return nil, fmt.Errorf("PR #%d has no merge commit, cannot fetch reference diff", prNumber)
	}

	repo := types.Repository{Owner: dataset.Owner, Name: dataset.Name, URL: dataset.RepoURL}
	referenceDiff, err := p.provider.FetchCommitDiff(ctx, repo, target.MergeCommitSHA)
	if err != nil {
		return nil, err
	}

	return p.evaluate(ctx, agentDiff, referenceDiff, datasetID, prNumber)
}

func (p *Platform) evaluate(ctx context.Context, agentDiff, referenceDiff, datasetID string, prNumber int) (*store.EvaluationRecord, error) {
	result, err := evaluation.Evaluate(agentDiff, referenceDiff)
	if err != nil {
		return nil, err
	}

	record := &store.EvaluationRecord{
		ID:        uuid.NewString(),
		DatasetID: datasetID,
		PRNumber:  prNumber,
		Report:    result,
		CreatedAt: time.Now().UTC(),
	}

	if p.config.ApproachAnalysis && p.llmClient != nil {
		record.ApproachAnalysis = p.analyzeApproach(ctx, agentDiff, referenceDiff)
	}

	if err := p.store.SaveEvaluation(record); err != nil {
		return nil, err
	}

	slog.Info("Evaluation complete",
		"evaluation_id", record.ID,
		"score", result.Score,
		"matched", len(result.FilesMatched),
		"missed", len(result.FilesReferenceOnly),
		"extra", len(result.FilesAgentOnly))

	return record, nil
}
