package analysis

import (
	"github.com/commitscope/commitscope-go/internal/models"
)

// Options is the run-wide configuration threaded explicitly into each
// pipeline stage. It is immutable for the duration of a run; no stage keeps
// ambient state, so repository and window scopes stay independently testable.
type Options struct {
	IncludeMergeCommits bool
	Detailed            bool
}

// AnalyzeRepository runs the full pipeline for one repository over
// already-fetched raw entries: normalize, merge-filter, window-filter,
// fingerprint, dedup, aggregate. Pure computation; every stage produces new
// values rather than mutating its input, and each window is processed
// independently so windows may freely overlap.
//
// branchOrder is the branch enumeration order established at fetch time and
// is used for canonical tie-breaks. An empty windows slice gets the single
// implicit all-time window.
func AnalyzeRepository(repo string, branchOrder []string, raw []models.RawCommit, windows []TimeWindow, opts Options) RepoResult {
	if len(windows) == 0 {
		windows = []TimeWindow{AllTimeWindow()}
	}

	records, warnings := Normalize(raw)

	result := RepoResult{
		Repository: repo,
		Branches:   append([]string(nil), branchOrder...),
		Warnings:   warnings,
	}

	for _, w := range windows {
		scoped := FilterWindow(records, w)
		totalRaw := len(scoped)
		var mergeExcluded int
		if !opts.IncludeMergeCommits {
			scoped, mergeExcluded = FilterMerges(scoped)
		}
		groups := Dedup(scoped, branchOrder)
		stats := Aggregate(groups)

		wr := WindowResult{
			Window:        w,
			Stats:         stats,
			TotalUnique:   len(groups),
			TotalRaw:      totalRaw,
			MergeExcluded: mergeExcluded,
		}
		if opts.Detailed {
			wr.Groups = groups
		}
		result.Windows = append(result.Windows, wr)
	}

	return result
}
