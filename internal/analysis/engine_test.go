package analysis

import (
	"testing"
	"time"

	"github.com/commitscope/commitscope-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(sha, branch, author, message string, ts time.Time, parents int, files []models.FileChange) models.RawCommit {
	shas := make([]string, parents)
	for i := range shas {
		shas[i] = "parent"
	}
	return models.RawCommit{
		SHA:         sha,
		AuthorLogin: author,
		Message:     message,
		Timestamp:   ts,
		ParentSHAs:  shas,
		Files:       files,
		Branch:      branch,
		Repository:  "acme/api",
	}
}

var loginFix = []models.FileChange{{Path: "auth/login.go", Additions: 4, Deletions: 1}}

func TestAnalyzeRepositoryDedupsAcrossBranches(t *testing.T) {
	input := []models.RawCommit{
		raw("sha1", "main", "alice", "fix login bug", baseTime, 1, loginFix),
		raw("sha2", "feature", "alice", "fix login bug", baseTime.Add(time.Hour), 1, loginFix),
	}

	result := AnalyzeRepository("acme/api", []string{"main", "feature"}, input, nil, Options{Detailed: true})

	require.Len(t, result.Windows, 1)
	wr := result.Windows[0]
	assert.True(t, wr.Window.AllTime)
	assert.Equal(t, 1, wr.TotalUnique)
	assert.Equal(t, 2, wr.TotalRaw)

	require.Len(t, wr.Stats.Users, 1)
	alice := wr.Stats.Users[0]
	assert.Equal(t, 1, alice.UniqueCommits)
	assert.Equal(t, 1, alice.ByBranch["main"])
	assert.Equal(t, 1, alice.ByBranch["feature"])

	require.Len(t, wr.Groups, 1)
	assert.Len(t, wr.Groups[0].Occurrences, 2)
}

func TestAnalyzeRepositoryMergeHandling(t *testing.T) {
	input := []models.RawCommit{
		raw("sha1", "main", "alice", "fix login bug", baseTime, 1, loginFix),
		raw("m1", "main", "alice", "Merge pull request #4", baseTime.Add(time.Hour), 2, nil),
	}
	branches := []string{"main"}

	// Default: merges never reach a dedup group.
	result := AnalyzeRepository("acme/api", branches, input, nil, Options{Detailed: true})
	wr := result.Windows[0]
	assert.Equal(t, 1, wr.TotalUnique)
	assert.Equal(t, 2, wr.TotalRaw)
	assert.Equal(t, 1, wr.MergeExcluded)
	for _, g := range wr.Groups {
		assert.Less(t, g.Canonical.ParentCount, 2)
	}

	// Merge inclusion: participates like any other commit.
	result = AnalyzeRepository("acme/api", branches, input, nil, Options{IncludeMergeCommits: true})
	wr = result.Windows[0]
	assert.Equal(t, 2, wr.TotalUnique)
	assert.Equal(t, 0, wr.MergeExcluded)
}

func TestAnalyzeRepositoryWindows(t *testing.T) {
	sprint := mustWindow("Sprint 1", "2025-03-17", "2025-05-03")
	windows := []TimeWindow{sprint, AllTimeWindow()}

	input := []models.RawCommit{
		raw("in", "main", "alice", "inside sprint", time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), 1, loginFix),
		raw("out", "main", "alice", "after sprint", time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC), 1, loginFix),
	}

	result := AnalyzeRepository("acme/api", []string{"main"}, input, windows, Options{})

	require.Len(t, result.Windows, 2)
	assert.Equal(t, "Sprint 1", result.Windows[0].Window.Name)
	assert.Equal(t, 1, result.Windows[0].TotalUnique)
	assert.Equal(t, 2, result.Windows[1].TotalUnique)
}

func TestAnalyzeRepositoryEmpty(t *testing.T) {
	// A repository with zero commits still appears in the report.
	result := AnalyzeRepository("acme/empty", []string{"main"}, nil, nil, Options{})

	require.Len(t, result.Windows, 1)
	assert.Equal(t, 0, result.Windows[0].TotalUnique)
	assert.Equal(t, 0, result.Windows[0].TotalRaw)
	assert.Empty(t, result.Windows[0].Stats.Users)
}

func TestAnalyzeRepositoryUniqueNeverExceedsRaw(t *testing.T) {
	input := []models.RawCommit{
		raw("sha1", "main", "alice", "fix login bug", baseTime, 1, loginFix),
		raw("sha2", "feature", "alice", "fix login bug", baseTime.Add(time.Hour), 1, loginFix),
		raw("sha3", "main", "bob", "add metrics", baseTime.Add(2*time.Hour), 1,
			[]models.FileChange{{Path: "metrics.go", Additions: 20, Deletions: 0}}),
		raw("m1", "main", "carol", "Merge branch 'feature'", baseTime.Add(3*time.Hour), 2, nil),
	}

	for _, include := range []bool{false, true} {
		result := AnalyzeRepository("acme/api", []string{"main", "feature"}, input, nil,
			Options{IncludeMergeCommits: include})
		wr := result.Windows[0]
		assert.LessOrEqual(t, wr.TotalUnique, wr.TotalRaw)
		assert.GreaterOrEqual(t, wr.TotalUnique, 1)
	}
}

func TestAnalyzeRepositoryRecordsMalformedWarnings(t *testing.T) {
	input := []models.RawCommit{
		raw("sha1", "main", "alice", "fix login bug", baseTime, 1, loginFix),
		{Branch: "main", Repository: "acme/api"},
	}

	result := AnalyzeRepository("acme/api", []string{"main"}, input, nil, Options{})

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMalformedRecord, result.Warnings[0].Code)
	assert.Equal(t, 1, result.Windows[0].TotalUnique)
}

func TestAnalyzeRepositoryGroupsOnlyInDetailedMode(t *testing.T) {
	input := []models.RawCommit{
		raw("sha1", "main", "alice", "fix login bug", baseTime, 1, loginFix),
	}
	branches := []string{"main"}

	plain := AnalyzeRepository("acme/api", branches, input, nil, Options{})
	assert.Nil(t, plain.Windows[0].Groups)

	detailed := AnalyzeRepository("acme/api", branches, input, nil, Options{Detailed: true})
	assert.NotNil(t, detailed.Windows[0].Groups)
}

func TestAssembleReportPreservesOrder(t *testing.T) {
	results := []RepoResult{
		{Repository: "acme/zeta"},
		{Repository: "acme/alpha"},
	}

	report := AssembleReport("run-1", time.Now(), results)

	require.Len(t, report.Repositories, 2)
	assert.Equal(t, "acme/zeta", report.Repositories[0].Repository)
	assert.Equal(t, "acme/alpha", report.Repositories[1].Repository)
	assert.Equal(t, "run-1", report.RunID)
}
