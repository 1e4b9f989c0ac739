package analysis

import (
	"sort"
)

// Occurrence is one (branch, sha) sighting of a logical commit. The author is
// carried so the detailed view can attribute every sighting, and so author
// disagreements inside a group can be flagged.
type Occurrence struct {
	Branch string `json:"branch"`
	SHA    string `json:"sha"`
	Author string `json:"author"`
}

// DedupGroup holds every record sharing one fingerprint within a
// (repository, window) scope. It contributes exactly one unit to any
// unique-commit count regardless of how many occurrences it carries.
type DedupGroup struct {
	Fingerprint FingerprintValue `json:"fingerprint"`
	Canonical   CommitRecord     `json:"canonical"`
	Occurrences []Occurrence     `json:"occurrences"`
}

// Dedup groups records by fingerprint. The canonical record is the earliest
// by timestamp; ties go to the record whose branch comes first in branchOrder,
// the fixed enumeration order established when branches were listed. Output
// groups are ordered by canonical timestamp, then fingerprint, so repeated
// runs over the same input produce identical output.
//
// Feeding the canonical records back through Dedup yields the same groups,
// each a singleton.
func Dedup(records []CommitRecord, branchOrder []string) []DedupGroup {
	rank := make(map[string]int, len(branchOrder))
	for i, b := range branchOrder {
		rank[b] = i
	}
	branchRank := func(b string) int {
		if i, ok := rank[b]; ok {
			return i
		}
		return len(branchOrder) // unlisted branches sort last
	}

	groups := make(map[FingerprintValue]*DedupGroup)
	var order []FingerprintValue

	for _, r := range records {
		fp := Fingerprint(r)
		g, ok := groups[fp]
		if !ok {
			g = &DedupGroup{Fingerprint: fp, Canonical: r}
			groups[fp] = g
			order = append(order, fp)
		} else if better(r, g.Canonical, branchRank) {
			g.Canonical = r
		}
		g.Occurrences = append(g.Occurrences, Occurrence{
			Branch: r.Branch,
			SHA:    r.SHA,
			Author: r.Author,
		})
	}

	out := make([]DedupGroup, 0, len(order))
	for _, fp := range order {
		g := groups[fp]
		sort.SliceStable(g.Occurrences, func(i, j int) bool {
			bi, bj := branchRank(g.Occurrences[i].Branch), branchRank(g.Occurrences[j].Branch)
			if bi != bj {
				return bi < bj
			}
			return g.Occurrences[i].SHA < g.Occurrences[j].SHA
		})
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Canonical.Timestamp.Equal(out[j].Canonical.Timestamp) {
			return out[i].Canonical.Timestamp.Before(out[j].Canonical.Timestamp)
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

// better reports whether candidate should replace current as canonical.
func better(candidate, current CommitRecord, branchRank func(string) int) bool {
	if candidate.Timestamp.Before(current.Timestamp) {
		return true
	}
	if current.Timestamp.Before(candidate.Timestamp) {
		return false
	}
	return branchRank(candidate.Branch) < branchRank(current.Branch)
}
