package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/commitscope/commitscope-go/internal/config"
	"github.com/commitscope/commitscope-go/internal/github"
	"github.com/commitscope/commitscope-go/internal/models"
	"github.com/commitscope/commitscope-go/internal/output"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Count unique commits per user across all branches",
	Long: `Fetches every branch of the configured repositories, collapses commits
that represent the same logical change (rebases, cherry-picks), excludes
merge commits unless asked otherwise, and reports unique-commit counts per
user, per repository, per time window.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("org", "", "GitHub organization (overrides config)")
	analyzeCmd.Flags().StringArrayP("repo", "r", nil, "repository to analyze, name or owner/name (repeatable)")
	analyzeCmd.Flags().StringArrayP("branches", "b", nil, "specific branches to analyze (repeatable)")
	analyzeCmd.Flags().BoolP("detailed", "d", false, "show per-branch breakdown for each user")
	analyzeCmd.Flags().Bool("include-merge-commits", false, "include merge commits in the analysis")
	analyzeCmd.Flags().Bool("unique-only", true, "count each logical commit once (the default and only supported mode)")
	analyzeCmd.Flags().StringP("output", "O", "", "write full report as JSON to this file")
	analyzeCmd.Flags().String("output-excel", "", "write report as an Excel workbook to this file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	applyAnalyzeFlags(cmd)

	if vr := config.Validate(cfg); vr.HasErrors() {
		return fmt.Errorf("%s", vr.Error())
	}

	windows, err := config.Windows(cfg)
	if err != nil {
		return err
	}

	token, err := config.NewCredentialManager(logger).GetGitHubToken(cfg.GitHub.Token)
	if err != nil {
		return err
	}

	detailed, _ := cmd.Flags().GetBool("detailed")
	includeMerges, _ := cmd.Flags().GetBool("include-merge-commits")
	uniqueOnly, _ := cmd.Flags().GetBool("unique-only")
	if !uniqueOnly {
		logger.Warn("raw counting is not supported; deduplication stays on")
	}

	opts := analysis.Options{
		IncludeMergeCommits: includeMerges,
		Detailed:            detailed,
	}

	client := github.NewClient(token, cfg.GitHub.RateLimit, logger)
	fetcher := github.NewFetcher(client, cfg.GitHub.MaxConcurrency, logger)

	// Repositories are processed in configuration order and fail
	// independently: one bad repository never sinks the run.
	results := make([]analysis.RepoResult, 0, len(cfg.Repositories))
	for _, repoStr := range cfg.Repositories {
		ref, err := models.ParseRepoRef(cfg.Organization, repoStr)
		if err != nil {
			return err
		}

		data, err := fetcher.FetchRepository(ctx, ref, cfg.Branches)
		if err != nil {
			logger.WithError(err).WithField("repository", ref.String()).Error("fetch failed, skipping repository")
			results = append(results, analysis.RepoResult{
				Repository: ref.String(),
				FetchError: err.Error(),
			})
			continue
		}

		results = append(results, analysis.AnalyzeRepository(
			data.Repository, data.Branches, data.Commits, windows, opts))
	}

	report := analysis.AssembleReport(uuid.NewString(), time.Now(), results)

	renderer := output.NewConsoleRenderer(os.Stdout, detailed)
	if err := renderer.Render(report); err != nil {
		return err
	}

	jsonPath, _ := cmd.Flags().GetString("output")
	if jsonPath == "" {
		jsonPath = cfg.Output.JSONPath
	}
	if jsonPath != "" {
		if err := output.WriteJSON(report, jsonPath); err != nil {
			return err
		}
		logger.WithField("path", jsonPath).Info("JSON report written")
	}

	excelPath, _ := cmd.Flags().GetString("output-excel")
	if excelPath == "" {
		excelPath = cfg.Output.ExcelPath
	}
	if excelPath != "" {
		if err := output.WriteExcel(report, excelPath); err != nil {
			return err
		}
		logger.WithField("path", excelPath).Info("Excel report written")
	}

	return nil
}

// applyAnalyzeFlags folds command-line overrides into the loaded config
// before validation.
func applyAnalyzeFlags(cmd *cobra.Command) {
	if org, _ := cmd.Flags().GetString("org"); org != "" {
		cfg.Organization = org
	}
	if repos, _ := cmd.Flags().GetStringArray("repo"); len(repos) > 0 {
		cfg.Repositories = repos
	}
	if branches, _ := cmd.Flags().GetStringArray("branches"); len(branches) > 0 {
		cfg.Branches = branches
	}
}
