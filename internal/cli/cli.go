package cli

import (
	"flag"
	"fmt"
)

// Args holds the parsed command-line arguments
type Args struct {
	Mode          string
	RepoURL       string
	DatasetID     string
	PromptMode    string
	AgentDiff     string
	ReferenceDiff string
	ShowHelp      bool
}

// Parse parses command-line arguments
func Parse() (*Args, error) {
	args := &Args{}

	// Define flags with both long and short forms
	flag.StringVar(&args.Mode, "mode", "", "Operation mode: 'serve' (default), 'extract', 'generate' or 'evaluate'")
	flag.StringVar(&args.Mode, "m", "", "Operation mode (shorthand)")

	flag.StringVar(&args.RepoURL, "repo-url", "", "GitHub repository URL to extract merged PR/issue pairs from (extract mode)")
	flag.StringVar(&args.RepoURL, "r", "", "Repository URL (shorthand)")

	flag.StringVar(&args.DatasetID, "dataset-id", "", "Dataset identifier (generate mode)")
	flag.StringVar(&args.DatasetID, "d", "", "Dataset identifier (shorthand)")

	flag.StringVar(&args.PromptMode, "prompt-mode", "", "Prompt generation mode: 'summary' or 'raw' (generate mode, overrides AEP_PROMPT_MODE)")

	flag.StringVar(&args.AgentDiff, "agent-diff", "", "Path to the agent-produced diff file (evaluate mode)")
	flag.StringVar(&args.ReferenceDiff, "reference-diff", "", "Path to the reference diff file (evaluate mode)")

	flag.BoolVar(&args.ShowHelp, "help", false, "Show help message")
	flag.BoolVar(&args.ShowHelp, "h", false, "Show help message (shorthand)")

	flag.Parse()

	// Check for help flag early - no need to validate if user just wants help
	if args.ShowHelp {
		return args, nil
	}

	// Determine mode (infer if not explicitly set)
	args.Mode = args.determineMode()

	// Validate arguments
	if err := args.validate(); err != nil {
		return nil, err
	}

	return args, nil
}

// determineMode determines the operation mode from arguments
func (a *Args) determineMode() string {
	// Explicit mode flag takes precedence
	if a.Mode != "" {
		return a.Mode
	}

	// Infer mode from provided arguments
	if a.RepoURL != "" {
		return "extract"
	}
	if a.AgentDiff != "" || a.ReferenceDiff != "" {
		return "evaluate"
	}
	if a.DatasetID != "" {
		return "generate"
	}

	// Default to running the HTTP server
	return "serve"
}

// validate validates the parsed arguments based on the determined mode
func (a *Args) validate() error {
	switch a.Mode {
	case "serve":
		// No required flags; everything comes from the environment.
	case "extract":
		if a.RepoURL == "" {
			return fmt.Errorf("extract mode requires --repo-url\n\nTry:\n  agent-eval --mode extract --repo-url https://github.com/org/repo\n\nOr run 'agent-eval --help' for more information")
		}
	case "generate":
		if a.DatasetID == "" {
			return fmt.Errorf("generate mode requires --dataset-id\n\nTry:\n  agent-eval --mode generate --dataset-id <id>\n\nOr run 'agent-eval --help' for more information")
		}
		if a.PromptMode != "" && a.PromptMode != "summary" && a.PromptMode != "raw" {
			return fmt.Errorf("invalid prompt mode '%s': must be 'summary' or 'raw'", a.PromptMode)
		}
	case "evaluate":
		if a.AgentDiff == "" || a.ReferenceDiff == "" {
			return fmt.Errorf("evaluate mode requires both --agent-diff and --reference-diff\n\nTry:\n  agent-eval --mode evaluate --agent-diff agent.patch --reference-diff real.patch\n\nOr run 'agent-eval --help' for more information")
		}
	default:
		return fmt.Errorf("invalid mode '%s': must be 'serve', 'extract', 'generate' or 'evaluate'", a.Mode)
	}

	return nil
}

// ShowUsage displays usage information
func ShowUsage() {
	fmt.Println(`Agent Eval - dataset extraction and diff-similarity evaluation for coding agents

USAGE:
  Serve mode (default):
    agent-eval

  Extract mode:
    agent-eval --repo-url <github-repo-url>

  Generate mode:
    agent-eval --dataset-id <id> [--prompt-mode summary|raw]

  Evaluate mode:
    agent-eval --agent-diff <file> --reference-diff <file>

FLAGS:
  -m, --mode <mode>            Operation mode: 'serve', 'extract', 'generate' or 'evaluate'
  -r, --repo-url <url>         GitHub repository URL (extract)
  -d, --dataset-id <id>        Dataset identifier (generate)
      --prompt-mode <mode>     Prompt generation mode: 'summary' or 'raw' (generate)
      --agent-diff <file>      Agent-produced diff file (evaluate)
      --reference-diff <file>  Reference diff file (evaluate)
  -h, --help                   Show this help message

EXAMPLES:
  # Run the HTTP API
  agent-eval

  # Extract merged PR/issue pairs into a dataset
  agent-eval -r https://github.com/org/repo

  # Generate prompts for every PR in a dataset
  agent-eval -d 4f8c2a1e-... --prompt-mode raw

  # Score an agent diff against the reference diff
  agent-eval --agent-diff agent.patch --reference-diff real.patch

CONFIGURATION:
  All configuration is set via environment variables (AEP_* keys).
  See .env.example for all available options.`)
}
