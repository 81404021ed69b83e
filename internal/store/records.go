package store

import (
	"encoding/json"
	"fmt"
	"time"

	"agent-eval/internal/evaluation"
	"agent-eval/internal/git/types"
)

// Key prefixes. Prompt keys embed a zero-padded PR number so a prefix
// scan returns prompts in PR order.
const (
	datasetPrefix = "dataset:"
	pairsPrefix   = "pairs:"
	promptPrefix  = "prompt:"
	evalPrefix    = "eval:"
)

// Dataset describes one extraction run over a repository
type Dataset struct {
	ID         string    `json:"id"`
	RepoURL    string    `json:"repo_url"`
	Owner      string    `json:"owner"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	PRCount    int       `json:"pr_count"`
	IssueCount int       `json:"issue_count"`
}

// PromptRecord is one generated prompt for a PR in a dataset
type PromptRecord struct {
	DatasetID   string    `json:"dataset_id"`
	PRNumber    int       `json:"pr_number"`
	Mode        string    `json:"mode"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}

// EvaluationRecord is one stored evaluation result
type EvaluationRecord struct {
	ID               string             `json:"id"`
	DatasetID        string             `json:"dataset_id,omitempty"`
	PRNumber         int                `json:"pr_number,omitempty"`
	Report           *evaluation.Report `json:"report"`
	ApproachAnalysis string             `json:"approach_analysis,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// SaveDataset stores the dataset metadata and its PR/issue pairs
func (s *Store) SaveDataset(dataset *Dataset, pairs []types.PullRequest) error {
	meta, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", dataset.ID, err)
	}
	if err := s.put(datasetPrefix+dataset.ID, meta); err != nil {
		return fmt.Errorf("failed to store dataset %s: %w", dataset.ID, err)
	}

	encoded, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("failed to encode pairs for dataset %s: %w", dataset.ID, err)
	}
	if err := s.put(pairsPrefix+dataset.ID, encoded); err != nil {
		return fmt.Errorf("failed to store pairs for dataset %s: %w", dataset.ID, err)
	}

	return nil
}

// GetDataset returns the dataset metadata for the given ID
func (s *Store) GetDataset(id string) (*Dataset, error) {
	data, err := s.get(datasetPrefix + id)
	if err != nil {
		return nil, err
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", id, err)
	}
	return &dataset, nil
}

// GetPairs returns the PR/issue pairs of a dataset
func (s *Store) GetPairs(datasetID string) ([]types.PullRequest, error) {
	data, err := s.get(pairsPrefix + datasetID)
	if err != nil {
		return nil, err
	}

	var pairs []types.PullRequest
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to decode pairs for dataset %s: %w", datasetID, err)
	}
	return pairs, nil
}

// ListDatasets returns dataset metadata in key order with offset pagination
func (s *Store) ListDatasets(skip, limit int) ([]Dataset, error) {
	if limit <= 0 {
		limit = 100
	}

	var datasets []Dataset
	seen := 0
	err := s.scan(datasetPrefix, func(value []byte) error {
		seen++
		if seen <= skip || len(datasets) >= limit {
			return nil
		}

		var dataset Dataset
		if err := json.Unmarshal(value, &dataset); err != nil {
			return fmt.Errorf("failed to decode dataset record: %w", err)
		}
		datasets = append(datasets, dataset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return datasets, nil
}

// SavePrompt stores a generated prompt, overwriting any previous prompt
// for the same dataset, PR and mode combination
func (s *Store) SavePrompt(prompt *PromptRecord) error {
	data, err := json.Marshal(prompt)
	if err != nil {
		return fmt.Errorf("failed to encode prompt for PR #%d: %w", prompt.PRNumber, err)
	}

	key := fmt.Sprintf("%s%s:%08d:%s", promptPrefix, prompt.DatasetID, prompt.PRNumber, prompt.Mode)
	if err := s.put(key, data); err != nil {
		return fmt.Errorf("failed to store prompt for PR #%d: %w", prompt.PRNumber, err)
	}
	return nil
}

// GetPrompts returns every stored prompt of a dataset in PR order
func (s *Store) GetPrompts(datasetID string) ([]PromptRecord, error) {
	var prompts []PromptRecord
	err := s.scan(promptPrefix+datasetID+":", func(value []byte) error {
		var prompt PromptRecord
		if err := json.Unmarshal(value, &prompt); err != nil {
			return fmt.Errorf("failed to decode prompt record: %w", err)
		}
		prompts = append(prompts, prompt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// SaveEvaluation stores an evaluation result under its ID
func (s *Store) SaveEvaluation(record *EvaluationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation %s: %w", record.ID, err)
	}
	if err := s.put(evalPrefix+record.ID, data); err != nil {
		return fmt.Errorf("failed to store evaluation %s: %w", record.ID, err)
	}
	return nil
}

// GetEvaluation returns a stored evaluation result by ID
func (s *Store) GetEvaluation(id string) (*EvaluationRecord, error) {
	data, err := s.get(evalPrefix + id)
	if err != nil {
		return nil, err
	}

	var record EvaluationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", id, err)
	}
	return &record, nil
}
