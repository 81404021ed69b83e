package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agent-eval/internal"
	"agent-eval/internal/config"
	"agent-eval/internal/git/types"
	"agent-eval/internal/store"
)

const testDiff = `diff --git a/a.py b/a.py
--- a/a.py
+++ b/a.py
@@ -1,2 +1,3 @@
 import sys
+fix bug
`

type stubProvider struct {
	pulls []types.PullRequest
	diff  string
}

func (s *stubProvider) FetchMergedPullRequests(ctx context.Context, repo types.Repository) ([]types.PullRequest, error) {
	return s.pulls, nil
}

func (s *stubProvider) FetchCommitDiff(ctx context.Context, repo types.Repository, sha string) (string, error) {
	return s.diff, nil
}

func (s *stubProvider) FetchIssue(ctx context.Context, repo types.Repository, number int) (*types.Issue, error) {
	return &types.Issue{Number: number, Title: "stub issue", State: "OPEN"}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestRouter(t *testing.T, provider types.Provider) (*gin.Engine, *internal.Platform) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(store.InMemoryConfig())
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	platform := internal.NewWithComponents(&config.Config{PromptMode: "summary"}, st, provider, nil)
	return SetupRouter(platform), platform
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{})

	w := doJSON(t, router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestExtractEndpoint(t *testing.T) {
	provider := &stubProvider{
		pulls: []types.PullRequest{
			{Number: 1, MergeCommitSHA: "sha1", Issues: []types.Issue{{Number: 10, Title: "Fix bug"}}},
		},
	}
	router, _ := newTestRouter(t, provider)

	t.Run("valid repo URL", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/github/extract", gin.H{"repo_url": "https://github.com/org/repo"})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
		}

		var dataset store.Dataset
		decodeBody(t, w, &dataset)
		if dataset.ID == "" || dataset.PRCount != 1 {
			t.Errorf("dataset = %+v, want assigned ID and 1 PR", dataset)
		}
	})

	t.Run("invalid repo URL", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/github/extract", gin.H{"repo_url": "https://example.com/org/repo"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/github/extract", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestDatasetEndpoints(t *testing.T) {
	provider := &stubProvider{
		pulls: []types.PullRequest{{Number: 1, Issues: []types.Issue{{Number: 2, Title: "t"}}}},
	}
	router, platform := newTestRouter(t, provider)

	dataset, err := platform.Extract(context.Background(), "https://github.com/org/repo")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/datasets?skip=0&limit=10", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Datasets []store.Dataset `json:"datasets"`
		}
		decodeBody(t, w, &body)
		if len(body.Datasets) != 1 || body.Datasets[0].ID != dataset.ID {
			t.Errorf("datasets = %+v, want the extracted dataset", body.Datasets)
		}
	})

	t.Run("list rejects bad pagination", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/datasets?skip=-1", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("get by ID", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/datasets/"+dataset.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Dataset store.Dataset       `json:"dataset"`
			Pairs   []types.PullRequest `json:"pairs"`
		}
		decodeBody(t, w, &body)
		if body.Dataset.ID != dataset.ID || len(body.Pairs) != 1 {
			t.Errorf("body = %+v, want dataset with one pair", body)
		}
	})

	t.Run("get missing ID", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/datasets/nope", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestGetIssueEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{})

	t.Run("fetches issue from provider", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/issues/org/repo/42", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
		}

		var body struct {
			Issue types.Issue `json:"issue"`
		}
		decodeBody(t, w, &body)
		if body.Issue.Number != 42 {
			t.Errorf("issue number = %d, want 42", body.Issue.Number)
		}
		if body.Issue.Title != "stub issue" {
			t.Errorf("issue title = %q, want %q", body.Issue.Title, "stub issue")
		}
	})

	t.Run("rejects non-numeric issue number", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/github/issues/org/repo/latest", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestPromptEndpoints(t *testing.T) {
	provider := &stubProvider{
		pulls: []types.PullRequest{{Number: 4, Issues: []types.Issue{{Number: 8, Title: "Fix the hang"}}}},
	}
	router, platform := newTestRouter(t, provider)

	dataset, err := platform.Extract(context.Background(), "https://github.com/org/repo")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	t.Run("generate", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/prompts/generate", gin.H{"dataset_id": dataset.ID, "mode": "raw"})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
		}

		var body struct {
			Prompts []store.PromptRecord `json:"prompts"`
		}
		decodeBody(t, w, &body)
		if len(body.Prompts) != 1 || body.Prompts[0].Mode != "raw" {
			t.Errorf("prompts = %+v, want one raw prompt", body.Prompts)
		}
	})

	t.Run("generate for missing dataset", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/prompts/generate", gin.H{"dataset_id": "nope"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("generate rejects bad mode", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/prompts/generate", gin.H{"dataset_id": dataset.ID, "mode": "terse"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("fetch stored prompts", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/prompts/"+dataset.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Prompts []store.PromptRecord `json:"prompts"`
		}
		decodeBody(t, w, &body)
		if len(body.Prompts) != 1 {
			t.Errorf("got %d prompts, want 1", len(body.Prompts))
		}
	})
}

func TestEvaluateDiffEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{})

	t.Run("identical diffs", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/diff", gin.H{"agent_diff": testDiff, "real_diff": testDiff})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
		}

		var body struct {
			ID       string  `json:"id"`
			Score    float64 `json:"score"`
			Analysis struct {
				FilesMatched    []string `json:"files_matched"`
				SimilarityScore float64  `json:"similarity_score"`
			} `json:"analysis"`
		}
		decodeBody(t, w, &body)
		if body.Score != 1.0 || body.Analysis.SimilarityScore != 1.0 {
			t.Errorf("score = %v / %v, want 1.0", body.Score, body.Analysis.SimilarityScore)
		}
		if body.ID == "" {
			t.Error("evaluation ID missing from response")
		}
		if len(body.Analysis.FilesMatched) != 1 {
			t.Errorf("files_matched = %v, want [a.py]", body.Analysis.FilesMatched)
		}
	})

	t.Run("malformed agent diff", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/diff", gin.H{"agent_diff": "@@ bogus @@\n", "real_diff": testDiff})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}

		var body map[string]string
		decodeBody(t, w, &body)
		if body["side"] != "agent" {
			t.Errorf("side = %q, want agent", body["side"])
		}
	})

	t.Run("malformed reference diff", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/diff", gin.H{"agent_diff": testDiff, "real_diff": "@@ bogus @@\n"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}

		var body map[string]string
		decodeBody(t, w, &body)
		if body["side"] != "reference" {
			t.Errorf("side = %q, want reference", body["side"])
		}
	})

	t.Run("empty diffs are a valid evaluation", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/diff", gin.H{"agent_diff": "", "real_diff": ""})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Score float64 `json:"score"`
		}
		decodeBody(t, w, &body)
		if body.Score != 1.0 {
			t.Errorf("score = %v, want 1.0 for two empty diffs", body.Score)
		}
	})
}

func TestEvaluatePREndpoint(t *testing.T) {
	provider := &stubProvider{
		pulls: []types.PullRequest{{Number: 9, MergeCommitSHA: "sha9", Issues: []types.Issue{{Number: 1, Title: "t"}}}},
		diff:  testDiff,
	}
	router, platform := newTestRouter(t, provider)

	dataset, err := platform.Extract(context.Background(), "https://github.com/org/repo")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/pr", gin.H{
			"dataset_id": dataset.ID,
			"pr_number":  9,
			"agent_diff": testDiff,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
		}

		var body struct {
			Score float64 `json:"score"`
		}
		decodeBody(t, w, &body)
		if body.Score != 1.0 {
			t.Errorf("score = %v, want 1.0", body.Score)
		}
	})

	t.Run("unknown PR", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/pr", gin.H{
			"dataset_id": dataset.ID,
			"pr_number":  404,
			"agent_diff": testDiff,
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/evaluate/pr", gin.H{"agent_diff": testDiff})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
