package cli

import (
	"flag"
	"os"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		errMsg  string
		check   func(*testing.T, *Args)
	}{
		{
			name: "help flag should not trigger validation",
			args: []string{"cmd", "--help", "--mode", "invalid"},
			check: func(t *testing.T, args *Args) {
				if !args.ShowHelp {
					t.Error("ShowHelp should be true")
				}
			},
		},
		{
			name: "no arguments defaults to serve",
			args: []string{"cmd"},
			check: func(t *testing.T, args *Args) {
				if args.Mode != "serve" {
					t.Errorf("Mode = %v, expected serve", args.Mode)
				}
			},
		},
		{
			name: "mode inferred from repo URL",
			args: []string{"cmd", "-r", "https://github.com/org/repo"},
			check: func(t *testing.T, args *Args) {
				if args.Mode != "extract" {
					t.Errorf("Mode = %v, expected extract (inferred from repo URL)", args.Mode)
				}
				if args.RepoURL != "https://github.com/org/repo" {
					t.Errorf("RepoURL = %v, expected the provided URL", args.RepoURL)
				}
			},
		},
		{
			name: "mode inferred from dataset ID",
			args: []string{"cmd", "-d", "abc-123"},
			check: func(t *testing.T, args *Args) {
				if args.Mode != "generate" {
					t.Errorf("Mode = %v, expected generate (inferred from dataset ID)", args.Mode)
				}
			},
		},
		{
			name: "mode inferred from diff files",
			args: []string{"cmd", "--agent-diff", "a.patch", "--reference-diff", "b.patch"},
			check: func(t *testing.T, args *Args) {
				if args.Mode != "evaluate" {
					t.Errorf("Mode = %v, expected evaluate (inferred from diff files)", args.Mode)
				}
			},
		},
		{
			name:    "extract mode missing repo URL should fail",
			args:    []string{"cmd", "-m", "extract"},
			wantErr: true,
			errMsg:  "extract mode requires --repo-url",
		},
		{
			name:    "generate mode missing dataset ID should fail",
			args:    []string{"cmd", "-m", "generate"},
			wantErr: true,
			errMsg:  "generate mode requires --dataset-id",
		},
		{
			name:    "generate mode rejects unknown prompt mode",
			args:    []string{"cmd", "-d", "abc-123", "--prompt-mode", "terse"},
			wantErr: true,
			errMsg:  "invalid prompt mode 'terse'",
		},
		{
			name:    "evaluate mode requires both diff files",
			args:    []string{"cmd", "--agent-diff", "a.patch"},
			wantErr: true,
			errMsg:  "evaluate mode requires both --agent-diff and --reference-diff",
		},
		{
			name:    "invalid mode value should fail",
			args:    []string{"cmd", "--mode", "bad"},
			wantErr: true,
			errMsg:  "invalid mode 'bad'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = tt.args

			args, err := Parse()

			if tt.wantErr {
				if err == nil {
					t.Error("Parse() expected error but got nil")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Parse() error = %v, expected to contain %v", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Parse() unexpected error = %v", err)
					return
				}
				if tt.check != nil {
					tt.check(t, args)
				}
			}
		})
	}
}

func TestDetermineMode(t *testing.T) {
	tests := []struct {
		name     string
		args     *Args
		expected string
	}{
		{"explicit mode wins", &Args{Mode: "serve", RepoURL: "https://github.com/o/r"}, "serve"},
		{"repo URL implies extract", &Args{RepoURL: "https://github.com/o/r"}, "extract"},
		{"dataset ID implies generate", &Args{DatasetID: "abc"}, "generate"},
		{"diff file implies evaluate", &Args{AgentDiff: "a.patch"}, "evaluate"},
		{"diff file beats dataset ID", &Args{DatasetID: "abc", AgentDiff: "a.patch"}, "evaluate"},
		{"nothing implies serve", &Args{}, "serve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.args.determineMode(); got != tt.expected {
				t.Errorf("determineMode() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
