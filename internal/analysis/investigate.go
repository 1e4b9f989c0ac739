package analysis

import (
	"sort"
	"time"
)

// Investigation summarizes one user's commit behavior across every branch of
// a repository, surfacing patterns that inflate naive commit counts:
// repeated messages, bursts of near-simultaneous commits, and suspiciously
// even spread across many branches.
type Investigation struct {
	User                string         `json:"user"`
	Repository          string         `json:"repository"`
	TotalCommits        int            `json:"total_commits"`
	BranchesContributed int            `json:"branches_contributed"`
	DuplicateMessages   []MessageCount `json:"duplicate_messages,omitempty"`
	TotalDuplicates     int            `json:"total_duplicates"`
	TimeSpanDays        int            `json:"time_span_days"`
	AvgCommitsPerDay    float64        `json:"avg_commits_per_day"`
	MinGap              time.Duration  `json:"min_gap"`
	BranchDistribution  []BranchCount  `json:"branch_distribution,omitempty"`
	MergeLikeMessages   int            `json:"merge_like_messages"`
	Indicators          []string       `json:"indicators,omitempty"`
}

// MessageCount is a commit message that appeared more than once.
type MessageCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// BranchCount is a per-branch commit total for the investigated user.
type BranchCount struct {
	Branch string `json:"branch"`
	Count  int    `json:"count"`
}

const (
	defaultHighDailyRate = 20.0
	shortGap             = time.Minute
	manyBranches         = 10
	uniformVariance      = 100.0
)

// InvestigateOptions tunes the cutoffs behind the indicator list.
type InvestigateOptions struct {
	// HighDailyRate is the average commits-per-day above which a user's
	// activity is flagged. Zero or negative falls back to the default.
	HighDailyRate float64
}

// DefaultInvestigateOptions returns the standard cutoffs.
func DefaultInvestigateOptions() InvestigateOptions {
	return InvestigateOptions{HighDailyRate: defaultHighDailyRate}
}

// Investigate builds the pattern report for one user from that user's
// normalized records across all branches. Records by other users must be
// filtered out by the caller.
func Investigate(user, repository string, records []CommitRecord, opts InvestigateOptions) Investigation {
	if opts.HighDailyRate <= 0 {
		opts.HighDailyRate = defaultHighDailyRate
	}
	inv := Investigation{
		User:         user,
		Repository:   repository,
		TotalCommits: len(records),
	}
	if len(records) == 0 {
		return inv
	}

	msgCounts := make(map[string]int)
	branchCounts := make(map[string]int)
	times := make([]time.Time, 0, len(records))
	for _, r := range records {
		msgCounts[r.Message]++
		branchCounts[r.Branch]++
		times = append(times, r.Timestamp)
		if LooksLikeMerge(r.Message) {
			inv.MergeLikeMessages++
		}
	}
	inv.BranchesContributed = len(branchCounts)

	for msg, n := range msgCounts {
		if n > 1 {
			inv.DuplicateMessages = append(inv.DuplicateMessages, MessageCount{Message: msg, Count: n})
			inv.TotalDuplicates += n - 1
		}
	}
	sort.Slice(inv.DuplicateMessages, func(i, j int) bool {
		if inv.DuplicateMessages[i].Count != inv.DuplicateMessages[j].Count {
			return inv.DuplicateMessages[i].Count > inv.DuplicateMessages[j].Count
		}
		return inv.DuplicateMessages[i].Message < inv.DuplicateMessages[j].Message
	})

	for b, n := range branchCounts {
		inv.BranchDistribution = append(inv.BranchDistribution, BranchCount{Branch: b, Count: n})
	}
	sort.Slice(inv.BranchDistribution, func(i, j int) bool {
		if inv.BranchDistribution[i].Count != inv.BranchDistribution[j].Count {
			return inv.BranchDistribution[i].Count > inv.BranchDistribution[j].Count
		}
		return inv.BranchDistribution[i].Branch < inv.BranchDistribution[j].Branch
	})

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	span := times[len(times)-1].Sub(times[0])
	inv.TimeSpanDays = int(span.Hours() / 24)
	inv.AvgCommitsPerDay = float64(len(records)) / (span.Hours()/24 + 1)

	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if i == 1 || gap < inv.MinGap {
			inv.MinGap = gap
		}
	}

	inv.Indicators = indicators(inv, branchCounts, opts)
	return inv
}

func indicators(inv Investigation, branchCounts map[string]int, opts InvestigateOptions) []string {
	var out []string
	if inv.TotalDuplicates > 0 {
		out = append(out, "duplicate commit messages across branches")
	}
	if inv.AvgCommitsPerDay > opts.HighDailyRate {
		out = append(out, "very high daily commit rate")
	}
	if inv.TotalCommits > 1 && inv.MinGap < shortGap {
		out = append(out, "commits less than a minute apart")
	}
	if len(branchCounts) > manyBranches {
		mean := float64(inv.TotalCommits) / float64(len(branchCounts))
		var variance float64
		for _, n := range branchCounts {
			d := float64(n) - mean
			variance += d * d
		}
		variance /= float64(len(branchCounts))
		if variance < uniformVariance {
			out = append(out, "suspiciously uniform spread across branches")
		}
	}
	return out
}
