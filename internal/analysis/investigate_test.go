package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestigateEmpty(t *testing.T) {
	inv := Investigate("alice", "acme/api", nil, DefaultInvestigateOptions())
	assert.Equal(t, 0, inv.TotalCommits)
	assert.Empty(t, inv.Indicators)
}

func TestInvestigateDuplicateMessages(t *testing.T) {
	records := []CommitRecord{
		record("sha1", "main", "alice", "update", "stats:a", baseTime, 1),
		record("sha2", "feature", "alice", "update", "stats:b", baseTime.Add(time.Hour), 1),
		record("sha3", "main", "alice", "real work", "stats:c", baseTime.Add(2*time.Hour), 1),
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())

	assert.Equal(t, 3, inv.TotalCommits)
	assert.Equal(t, 2, inv.BranchesContributed)
	require.Len(t, inv.DuplicateMessages, 1)
	assert.Equal(t, "update", inv.DuplicateMessages[0].Message)
	assert.Equal(t, 2, inv.DuplicateMessages[0].Count)
	assert.Equal(t, 1, inv.TotalDuplicates)
	assert.Contains(t, inv.Indicators, "duplicate commit messages across branches")
}

func TestInvestigateRapidCommits(t *testing.T) {
	records := []CommitRecord{
		record("sha1", "main", "alice", "a", "stats:a", baseTime, 1),
		record("sha2", "main", "alice", "b", "stats:b", baseTime.Add(10*time.Second), 1),
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())

	assert.Equal(t, 10*time.Second, inv.MinGap)
	assert.Contains(t, inv.Indicators, "commits less than a minute apart")
}

func TestInvestigateUniformBranchSpread(t *testing.T) {
	var records []CommitRecord
	ts := baseTime
	for i := 0; i < 12; i++ {
		branch := fmt.Sprintf("branch-%02d", i)
		for j := 0; j < 3; j++ {
			ts = ts.Add(2 * time.Hour)
			sha := fmt.Sprintf("sha-%d-%d", i, j)
			records = append(records, record(sha, branch, "alice", "msg "+sha, "stats:"+sha, ts, 1))
		}
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())

	assert.Equal(t, 12, inv.BranchesContributed)
	assert.Contains(t, inv.Indicators, "suspiciously uniform spread across branches")
}

func TestInvestigateDailyRateThreshold(t *testing.T) {
	var records []CommitRecord
	for i := 0; i < 5; i++ {
		sha := fmt.Sprintf("sha%d", i)
		records = append(records, record(sha, "main", "alice", "msg "+sha, "stats:"+sha, baseTime.Add(time.Duration(i)*time.Hour), 1))
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())
	assert.NotContains(t, inv.Indicators, "very high daily commit rate")

	inv = Investigate("alice", "acme/api", records, InvestigateOptions{HighDailyRate: 3})
	assert.Contains(t, inv.Indicators, "very high daily commit rate")

	// Zero means "use the default", not "flag everything".
	inv = Investigate("alice", "acme/api", records, InvestigateOptions{})
	assert.NotContains(t, inv.Indicators, "very high daily commit rate")
}

func TestInvestigateCountsMergeLikeMessages(t *testing.T) {
	records := []CommitRecord{
		record("sha1", "main", "alice", "Merge branch 'dev' into main", "stats:a", baseTime, 1),
		record("sha2", "main", "alice", "normal work", "stats:b", baseTime.Add(time.Hour), 1),
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())
	assert.Equal(t, 1, inv.MergeLikeMessages)
}

func TestInvestigateBranchDistributionSorted(t *testing.T) {
	records := []CommitRecord{
		record("sha1", "quiet", "alice", "a", "stats:a", baseTime, 1),
		record("sha2", "busy", "alice", "b", "stats:b", baseTime.Add(time.Hour), 1),
		record("sha3", "busy", "alice", "c", "stats:c", baseTime.Add(2*time.Hour), 1),
	}

	inv := Investigate("alice", "acme/api", records, DefaultInvestigateOptions())

	require.Len(t, inv.BranchDistribution, 2)
	assert.Equal(t, "busy", inv.BranchDistribution[0].Branch)
	assert.Equal(t, 2, inv.BranchDistribution[0].Count)
}
