package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() analysis.AnalysisReport {
	wr := analysis.WindowResult{
		Window:      analysis.AllTimeWindow(),
		TotalUnique: 2,
		TotalRaw:    3,
		Stats: analysis.UserStats{
			Users: []analysis.UserStat{
				{
					Author:        "alice",
					UniqueCommits: 2,
					Branches:      []string{"feature", "main"},
					ByBranch:      map[string]int{"main": 2, "feature": 1},
					FirstCommit:   time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC),
					LastCommit:    time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
				},
			},
		},
	}
	repo := analysis.RepoResult{
		Repository: "acme/api",
		Branches:   []string{"main", "feature"},
		Windows:    []analysis.WindowResult{wr},
	}
	return analysis.AssembleReport("run-1", time.Now(), []analysis.RepoResult{repo})
}

func TestConsoleRendererSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf, false)

	require.NoError(t, r.Render(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "acme/api")
	assert.Contains(t, out, "All Time")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2025-03-20")
	// No branch breakdown without detailed mode.
	assert.NotContains(t, out, "Branch activity")
}

func TestConsoleRendererDetailed(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf, true)

	require.NoError(t, r.Render(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Branch activity for alice")
	assert.Contains(t, out, "feature")
}

func TestConsoleRendererFetchFailure(t *testing.T) {
	report := analysis.AssembleReport("run-1", time.Now(), []analysis.RepoResult{
		{Repository: "acme/broken", FetchError: "enumerate branches: 404"},
	})

	var buf bytes.Buffer
	require.NoError(t, NewConsoleRenderer(&buf, false).Render(report))
	assert.Contains(t, buf.String(), "Skipped: enumerate branches: 404")
}

func TestConsoleRendererWarnings(t *testing.T) {
	report := sampleReport()
	report.Repositories[0].Warnings = []analysis.Warning{
		{Code: analysis.WarnMalformedRecord, Message: "dropped one entry"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewConsoleRenderer(&buf, false).Render(report))
	assert.Contains(t, buf.String(), "malformed_record")
}

func TestRenderInvestigation(t *testing.T) {
	inv := analysis.Investigation{
		User:                "alice",
		Repository:          "acme/api",
		TotalCommits:        5,
		BranchesContributed: 2,
		TotalDuplicates:     1,
		DuplicateMessages:   []analysis.MessageCount{{Message: "update", Count: 2}},
		BranchDistribution:  []analysis.BranchCount{{Branch: "main", Count: 3}, {Branch: "dev", Count: 2}},
		Indicators:          []string{"duplicate commit messages across branches"},
		MinGap:              90 * time.Second,
	}

	var buf bytes.Buffer
	require.NoError(t, NewConsoleRenderer(&buf, false).RenderInvestigation(inv))

	out := buf.String()
	assert.Contains(t, out, "Investigation: alice in acme/api")
	assert.Contains(t, out, "duplicate commit messages")
	assert.Contains(t, out, `"update" appears 2 times`)
}

func TestTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "User", "Commits")
	tbl.AddRow("alice", "10")
	tbl.AddRow("bob", "3")
	require.NoError(t, tbl.Render())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4) // header, separator, two rows
	assert.True(t, strings.HasPrefix(lines[0], "User"))
}
