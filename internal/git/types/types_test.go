package types

import (
	"testing"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{"plain URL", "https://github.com/golang/go", "golang", "go", false},
		{"trailing slash", "https://github.com/golang/go/", "golang", "go", false},
		{"git suffix", "https://github.com/golang/go.git", "golang", "go", false},
		{"dotted name", "https://github.com/kubernetes/k8s.io", "kubernetes", "k8s.io", false},
		{"http scheme rejected", "http://github.com/golang/go", "", "", true},
		{"other host rejected", "https://gitlab.com/golang/go", "", "", true},
		{"missing repo rejected", "https://github.com/golang", "", "", true},
		{"deeper path rejected", "https://github.com/golang/go/pull/1", "", "", true},
		{"compare URL rejected", "https://github.com/o/r/compare/v1...v2", "", "", true},
		{"empty rejected", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRepoURL(%q) accepted invalid URL", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoURL(%q) returned error: %v", tt.url, err)
			}
			if repo.Owner != tt.wantOwner || repo.Name != tt.wantName {
				t.Errorf("ParseRepoURL(%q) = %s/%s, want %s/%s", tt.url, repo.Owner, repo.Name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestRepositoryFullName(t *testing.T) {
	repo := Repository{Owner: "golang", Name: "go"}
	if got := repo.FullName(); got != "golang/go" {
		t.Errorf("FullName() = %q, want golang/go", got)
	}
}

func TestPullRequestHasLinkedIssues(t *testing.T) {
	pr := PullRequest{Number: 7}
	if pr.HasLinkedIssues() {
		t.Error("HasLinkedIssues() = true for PR without issues")
	}
	pr.Issues = []Issue{{Number: 3}}
	if !pr.HasLinkedIssues() {
		t.Error("HasLinkedIssues() = false for PR with an issue")
	}
}
