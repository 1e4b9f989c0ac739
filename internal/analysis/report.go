package analysis

import (
	"time"
)

// WindowResult is the fully aggregated outcome for one (repository, window)
// scope. Groups carry per-occurrence detail and are populated only in
// detailed mode.
type WindowResult struct {
	Window        TimeWindow   `json:"window"`
	Stats         UserStats    `json:"stats"`
	TotalUnique   int          `json:"total_unique"`
	TotalRaw      int          `json:"total_raw"`
	MergeExcluded int          `json:"merge_commits_excluded"`
	Groups        []DedupGroup `json:"groups,omitempty"`
}

// RepoResult holds every window result for one repository. A repository whose
// fetch failed carries FetchError and no windows; other repositories in the
// run are unaffected.
type RepoResult struct {
	Repository string         `json:"repository"`
	Branches   []string       `json:"branches_considered"`
	Windows    []WindowResult `json:"windows,omitempty"`
	Warnings   []Warning      `json:"warnings,omitempty"`
	FetchError string         `json:"fetch_error,omitempty"`
}

// AnalysisReport is the root of one run's output: one entry per configured
// repository, in configuration order, each holding windows in declaration
// order. Immutable once assembled.
type AnalysisReport struct {
	RunID        string       `json:"run_id"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Repositories []RepoResult `json:"repositories"`
}

// AssembleReport composes per-repository results into the final report.
// Pure composition: no recomputation, and results keep the order they were
// passed in, which the driver guarantees matches configuration order even
// when fetching completed out of order.
func AssembleReport(runID string, generatedAt time.Time, results []RepoResult) AnalysisReport {
	repos := make([]RepoResult, len(results))
	copy(repos, results)
	return AnalysisReport{
		RunID:        runID,
		GeneratedAt:  generatedAt.UTC(),
		Repositories: repos,
	}
}
