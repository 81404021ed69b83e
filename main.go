package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"agent-eval/internal"
	"agent-eval/internal/cli"
	"agent-eval/internal/config"
	"agent-eval/internal/logger"
	"agent-eval/internal/report"
	"agent-eval/internal/server"
)

func main() {
	// Parse command-line arguments
	args, err := cli.Parse()
	if err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	// Handle help flag
	if args.ShowHelp {
		cli.ShowUsage()
		os.Exit(0)
	}

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logger.Setup(cfg)

	// Create the platform
	platform, err := internal.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create platform: %v", err)
	}
	defer platform.Close()

	ctx := context.Background()

	switch args.Mode {
	case "serve":
		if err := server.Serve(cfg, platform); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}

	case "extract":
		dataset, err := platform.Extract(ctx, args.RepoURL)
		if err != nil {
			log.Fatalf("Failed to extract dataset: %v", err)
		}
		fmt.Printf("Dataset %s: %d merged PRs, %d linked issues\n", dataset.ID, dataset.PRCount, dataset.IssueCount)

	case "generate":
		records, err := platform.GeneratePrompts(ctx, args.DatasetID, args.PromptMode)
		if err != nil {
			log.Fatalf("Failed to generate prompts: %v", err)
		}
		for _, record := range records {
			fmt.Printf("## PR #%d\n\n%s\n\n", record.PRNumber, record.Text)
		}

	case "evaluate":
		if err := runEvaluate(ctx, platform, args); err != nil {
			log.Fatalf("Failed to evaluate: %v", err)
		}
	}
}

// runEvaluate scores two diff files and prints the markdown report
func runEvaluate(ctx context.Context, platform *internal.Platform, args *cli.Args) error {
	agentDiff, err := os.ReadFile(args.AgentDiff)
	if err != nil {
		return fmt.Errorf("failed to read agent diff: %w", err)
	}
	referenceDiff, err := os.ReadFile(args.ReferenceDiff)
	if err != nil {
		return fmt.Errorf("failed to read reference diff: %w", err)
	}

	record, err := platform.EvaluateDiff(ctx, string(agentDiff), string(referenceDiff))
	if err != nil {
		return err
	}

	rendered, err := report.Render(&report.Data{
		GeneratedAt:      time.Now().UTC(),
		Report:           record.Report,
		ApproachAnalysis: record.ApproachAnalysis,
	})
	if err != nil {
		return err
	}

	// Print to stdout (user can redirect to file if needed)
	fmt.Print(rendered)
	return nil
}
