package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/commitscope/commitscope-go/internal/analysis"
)

const dateFormat = "2006-01-02"

// ConsoleRenderer writes per-(repository, window) tables to a writer.
// Detailed mode adds a per-branch breakdown under each user.
type ConsoleRenderer struct {
	w        io.Writer
	detailed bool
}

// NewConsoleRenderer creates a console renderer
func NewConsoleRenderer(w io.Writer, detailed bool) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, detailed: detailed}
}

// Render prints the full report, repositories in report order
func (r *ConsoleRenderer) Render(report analysis.AnalysisReport) error {
	for _, repo := range report.Repositories {
		fmt.Fprintf(r.w, "\n=== Repository: %s ===\n", repo.Repository)

		if repo.FetchError != "" {
			fmt.Fprintf(r.w, "Skipped: %s\n", repo.FetchError)
			continue
		}

		for _, wr := range repo.Windows {
			if err := r.renderWindow(repo, wr); err != nil {
				return err
			}
		}

		r.renderWarnings(repo.Warnings)
	}
	return nil
}

func (r *ConsoleRenderer) renderWindow(repo analysis.RepoResult, wr analysis.WindowResult) error {
	fmt.Fprintf(r.w, "\n--- %s ---\n", windowLabel(wr.Window))

	summary := NewTable(r.w, "Metric", "Value")
	summary.AddRow("Unique Commits", strconv.Itoa(wr.TotalUnique))
	summary.AddRow("Raw Records", strconv.Itoa(wr.TotalRaw))
	summary.AddRow("Merge Commits Excluded", strconv.Itoa(wr.MergeExcluded))
	summary.AddRow("Branches Considered", strconv.Itoa(len(repo.Branches)))
	summary.AddRow("Active Contributors", strconv.Itoa(len(wr.Stats.Users)))
	if err := summary.Render(); err != nil {
		return err
	}

	if len(wr.Stats.Users) > 0 {
		fmt.Fprintln(r.w)
		ranking := NewTable(r.w, "Rank", "User", "Unique Commits", "Branches", "First Commit", "Last Commit")
		for i, u := range wr.Stats.Users {
			ranking.AddRow(
				strconv.Itoa(i+1),
				u.Author,
				strconv.Itoa(u.UniqueCommits),
				strconv.Itoa(len(u.Branches)),
				formatDate(u.FirstCommit),
				formatDate(u.LastCommit),
			)
		}
		if err := ranking.Render(); err != nil {
			return err
		}
	}

	if r.detailed {
		if err := r.renderBranchDetail(wr); err != nil {
			return err
		}
	}

	r.renderWarnings(wr.Stats.Warnings)
	return nil
}

func (r *ConsoleRenderer) renderBranchDetail(wr analysis.WindowResult) error {
	for _, u := range wr.Stats.Users {
		if len(u.ByBranch) == 0 {
			continue
		}

		total := 0
		for _, n := range u.ByBranch {
			total += n
		}

		fmt.Fprintf(r.w, "\nBranch activity for %s (%d unique, %d occurrences):\n",
			u.Author, u.UniqueCommits, total)

		detail := NewTable(r.w, "Branch", "Occurrences", "Share")
		for _, branch := range u.Branches {
			n := u.ByBranch[branch]
			share := 0.0
			if total > 0 {
				share = float64(n) / float64(total) * 100
			}
			detail.AddRow(branch, strconv.Itoa(n), fmt.Sprintf("%.1f%%", share))
		}
		if err := detail.Render(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConsoleRenderer) renderWarnings(warnings []analysis.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(r.w, "warning [%s]: %s\n", w.Code, w.Message)
	}
}

// RenderInvestigation prints a user-pattern investigation
func (r *ConsoleRenderer) RenderInvestigation(inv analysis.Investigation) error {
	fmt.Fprintf(r.w, "\n=== Investigation: %s in %s ===\n\n", inv.User, inv.Repository)

	summary := NewTable(r.w, "Metric", "Value")
	summary.AddRow("Total Commits", strconv.Itoa(inv.TotalCommits))
	summary.AddRow("Branches Contributed", strconv.Itoa(inv.BranchesContributed))
	summary.AddRow("Duplicate Messages", strconv.Itoa(inv.TotalDuplicates))
	summary.AddRow("Merge-like Messages", strconv.Itoa(inv.MergeLikeMessages))
	summary.AddRow("Time Span (days)", strconv.Itoa(inv.TimeSpanDays))
	summary.AddRow("Avg Commits/Day", fmt.Sprintf("%.1f", inv.AvgCommitsPerDay))
	if inv.TotalCommits > 1 {
		summary.AddRow("Min Gap Between Commits", inv.MinGap.Truncate(time.Second).String())
	}
	if err := summary.Render(); err != nil {
		return err
	}

	if len(inv.Indicators) > 0 {
		fmt.Fprintln(r.w, "\nIndicators:")
		for _, ind := range inv.Indicators {
			fmt.Fprintf(r.w, "  - %s\n", ind)
		}
	} else {
		fmt.Fprintln(r.w, "\nNo obvious suspicious patterns detected.")
	}

	if len(inv.DuplicateMessages) > 0 {
		fmt.Fprintln(r.w, "\nDuplicate messages:")
		shown := inv.DuplicateMessages
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, m := range shown {
			fmt.Fprintf(r.w, "  %q appears %d times\n", truncate(m.Message, 60), m.Count)
		}
		if rest := len(inv.DuplicateMessages) - len(shown); rest > 0 {
			fmt.Fprintf(r.w, "  ... and %d more\n", rest)
		}
	}

	if len(inv.BranchDistribution) > 0 {
		fmt.Fprintln(r.w, "\nBranch distribution:")
		dist := NewTable(r.w, "Branch", "Commits")
		shown := inv.BranchDistribution
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, b := range shown {
			dist.AddRow(b.Branch, strconv.Itoa(b.Count))
		}
		if err := dist.Render(); err != nil {
			return err
		}
	}

	return nil
}

func windowLabel(w analysis.TimeWindow) string {
	if w.AllTime {
		return w.Name
	}
	return fmt.Sprintf("%s (%s .. %s)", w.Name, w.Start.Format(dateFormat), w.End.Format(dateFormat))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format(dateFormat)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
