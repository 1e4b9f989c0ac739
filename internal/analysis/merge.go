package analysis

import "strings"

// IsMerge reports whether a record is a merge commit: two or more parents.
func IsMerge(r CommitRecord) bool {
	return r.ParentCount >= 2
}

// FilterMerges removes merge commits from a record set. Run before
// fingerprinting so merges never occupy a dedup group. A new slice is
// returned; the input is not mutated.
func FilterMerges(records []CommitRecord) (kept []CommitRecord, excluded int) {
	kept = make([]CommitRecord, 0, len(records))
	for _, r := range records {
		if IsMerge(r) {
			excluded++
			continue
		}
		kept = append(kept, r)
	}
	return kept, excluded
}

var mergeIndicators = []string{
	"merge pull request",
	"merge branch",
	"merge remote",
	"merge from",
	"merge into",
	"merge:",
}

// LooksLikeMerge reports whether a commit message reads like a merge, for
// commits whose parent count is unavailable or unreliable. Used by the
// investigation report, never by the merge filter itself.
func LooksLikeMerge(message string) bool {
	m := strings.ToLower(message)
	for _, ind := range mergeIndicators {
		if strings.Contains(m, ind) {
			return true
		}
	}
	return false
}
