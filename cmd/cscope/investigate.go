package main

import (
	"context"
	"fmt"
	"os"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/commitscope/commitscope-go/internal/config"
	"github.com/commitscope/commitscope-go/internal/github"
	"github.com/commitscope/commitscope-go/internal/models"
	"github.com/commitscope/commitscope-go/internal/output"
	"github.com/spf13/cobra"
)

var investigateCmd = &cobra.Command{
	Use:   "investigate <user>",
	Short: "Inspect one user's commit patterns in a repository",
	Long: `Collects every commit by one user across all branches of a repository and
reports the patterns that inflate naive commit counts: duplicated messages,
bursts of near-simultaneous commits, and uniform spread across branches.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvestigate,
}

func init() {
	investigateCmd.Flags().String("org", "", "GitHub organization (overrides config)")
	investigateCmd.Flags().StringP("repo", "r", "", "repository to inspect, name or owner/name")
	investigateCmd.Flags().Float64("threshold", 20, "average commits per day above which activity is flagged")
	investigateCmd.MarkFlagRequired("repo")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	user := args[0]

	if org, _ := cmd.Flags().GetString("org"); org != "" {
		cfg.Organization = org
	}
	repoStr, _ := cmd.Flags().GetString("repo")

	ref, err := models.ParseRepoRef(cfg.Organization, repoStr)
	if err != nil {
		return err
	}

	token, err := config.NewCredentialManager(logger).GetGitHubToken(cfg.GitHub.Token)
	if err != nil {
		return err
	}

	client := github.NewClient(token, cfg.GitHub.RateLimit, logger)
	fetcher := github.NewFetcher(client, cfg.GitHub.MaxConcurrency, logger)

	data, err := fetcher.FetchRepository(ctx, ref, nil)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ref, err)
	}

	records, warnings := analysis.Normalize(data.Commits)
	for _, w := range warnings {
		logger.WithField("code", w.Code).Warn(w.Message)
	}

	var mine []analysis.CommitRecord
	for _, r := range records {
		if r.Author == user {
			mine = append(mine, r)
		}
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	inv := analysis.Investigate(user, ref.String(), mine, analysis.InvestigateOptions{HighDailyRate: threshold})
	return output.NewConsoleRenderer(os.Stdout, false).RenderInvestigation(inv)
}
