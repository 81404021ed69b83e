package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agent-eval/internal"
	"agent-eval/internal/evaluation"
	"agent-eval/internal/git/types"
	"agent-eval/internal/store"
)

type extractRequest struct {
	RepoURL string `json:"repo_url"`
}

type generateRequest struct {
	DatasetID string `json:"dataset_id"`
	Mode      string `json:"mode"`
}

type evaluateDiffRequest struct {
	AgentDiff string `json:"agent_diff"`
	RealDiff  string `json:"real_diff"`
}

type evaluatePRRequest struct {
	DatasetID string `json:"dataset_id"`
	PRNumber  int    `json:"pr_number"`
	AgentDiff string `json:"agent_diff"`
}

// evaluationResponse is the wire shape of an evaluation result
type evaluationResponse struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Analysis analysisDetail `json:"analysis"`
}

type analysisDetail struct {
	FilesMatched     []string           `json:"files_matched"`
	FilesMissed      []string           `json:"files_missed"`
	FilesExtra       []string           `json:"files_extra"`
	PerFileScores    map[string]float64 `json:"per_file_scores"`
	SimilarityScore  float64            `json:"similarity_score"`
	ApproachAnalysis string             `json:"approach_analysis,omitempty"`
}

func toEvaluationResponse(record *store.EvaluationRecord) evaluationResponse {
	return evaluationResponse{
		ID:    record.ID,
		Score: record.Report.Score,
		Analysis: analysisDetail{
			FilesMatched:     record.Report.FilesMatched,
			FilesMissed:      record.Report.FilesReferenceOnly,
			FilesExtra:       record.Report.FilesAgentOnly,
			PerFileScores:    record.Report.PerFileScores,
			SimilarityScore:  record.Report.Score,
			ApproachAnalysis: record.ApproachAnalysis,
		},
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExtractDataset extracts a repository's merged PR/issue pairs into a new dataset
func ExtractDataset(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req extractRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if _, err := types.ParseRepoURL(req.RepoURL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		dataset, err := platform.Extract(c.Request.Context(), req.RepoURL)
		if err != nil {
			slog.Error("Extraction failed", "repo_url", req.RepoURL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, dataset)
	}
}

// ListDatasets returns dataset metadata with skip/limit pagination
func ListDatasets(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
		if err != nil || skip < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}

		datasets, err := platform.Store().ListDatasets(skip, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if datasets == nil {
			datasets = []store.Dataset{}
		}

		c.JSON(http.StatusOK, gin.H{"datasets": datasets})
	}
}

// GetDataset returns one dataset with its PR/issue pairs
func GetDataset(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		dataset, err := platform.Store().GetDataset(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		pairs, err := platform.Store().GetPairs(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"dataset": dataset, "pairs": pairs})
	}
}

// GetIssue fetches a single issue live from the git provider
func GetIssue(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil || number < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "issue number must be a positive integer"})
			return
		}

		issue, err := platform.FetchIssue(c.Request.Context(), c.Param("owner"), c.Param("repo"), number)
		if err != nil {
			slog.Error("Issue fetch failed",
				"owner", c.Param("owner"), "repo", c.Param("repo"), "number", number, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"issue": issue})
	}
}

// GeneratePrompts generates and stores prompts for every PR in a dataset
func GeneratePrompts(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.DatasetID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dataset_id is required"})
			return
		}
		if req.Mode != "" && req.Mode != "summary" && req.Mode != "raw" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'summary' or 'raw'"})
			return
		}

		records, err := platform.GeneratePrompts(c.Request.Context(), req.DatasetID, req.Mode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondStoreError(c, err)
				return
			}
			slog.Error("Prompt generation failed", "dataset_id", req.DatasetID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if records == nil {
			records = []store.PromptRecord{}
		}

		c.JSON(http.StatusCreated, gin.H{"prompts": records})
	}
}

// GetPrompts returns the stored prompts of a dataset
func GetPrompts(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := platform.Store().GetPrompts(c.Param("dataset_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if records == nil {
			records = []store.PromptRecord{}
		}

		c.JSON(http.StatusOK, gin.H{"prompts": records})
	}
}

// EvaluateDiff scores an agent diff against a caller-provided reference diff
func EvaluateDiff(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req evaluateDiffRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		record, err := platform.EvaluateDiff(c.Request.Context(), req.AgentDiff, req.RealDiff)
		if err != nil {
			respondEvaluationError(c, err)
			return
		}

		c.JSON(http.StatusOK, toEvaluationResponse(record))
	}
}

// EvaluatePR scores an agent diff against the stored reference of one dataset PR
func EvaluatePR(platform *internal.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req evaluatePRRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.DatasetID == "" || req.PRNumber == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dataset_id and pr_number are required"})
			return
		}

		record, err := platform.EvaluatePR(c.Request.Context(), req.DatasetID, req.PRNumber, req.AgentDiff)
		if err != nil {
			respondEvaluationError(c, err)
			return
		}

		c.JSON(http.StatusOK, toEvaluationResponse(record))
	}
}

// respondEvaluationError maps evaluation failures to HTTP statuses:
// malformed diffs are the caller's fault, missing records are 404,
// everything else is a server-side failure.
func respondEvaluationError(c *gin.Context, err error) {
	var inputErr *evaluation.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error(), "side": inputErr.Side})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err)
		return
	}

	slog.Error("Evaluation failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
