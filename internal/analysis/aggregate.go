package analysis

import (
	"fmt"
	"sort"
	"time"
)

// UserStat is one user's row in the ranking for a (repository, window) scope.
// UniqueCommits counts dedup groups whose canonical record the user authored.
// ByBranch counts every occurrence per branch and may sum to more than
// UniqueCommits, since one logical commit can appear on several branches.
type UserStat struct {
	Author        string         `json:"author"`
	UniqueCommits int            `json:"unique_commits"`
	Branches      []string       `json:"branches"`
	ByBranch      map[string]int `json:"unique_commits_by_branch,omitempty"`
	FirstCommit   time.Time      `json:"first_commit,omitzero"`
	LastCommit    time.Time      `json:"last_commit,omitzero"`
}

// UserStats is the aggregate for one (repository, window) scope, with rows
// presented in descending unique-count order, ties broken alphabetically.
type UserStats struct {
	Users    []UserStat `json:"users"`
	Warnings []Warning  `json:"warnings,omitempty"`
}

// Aggregate attributes each group's single unit to its canonical author and,
// for the detailed view, every occurrence to that occurrence's own author and
// branch. When occurrences inside a group disagree on author, the canonical
// author stays authoritative for the unique count and a warning is recorded.
func Aggregate(groups []DedupGroup) UserStats {
	byAuthor := make(map[string]*UserStat)
	var warnings []Warning

	stat := func(author string) *UserStat {
		s, ok := byAuthor[author]
		if !ok {
			s = &UserStat{Author: author, ByBranch: make(map[string]int)}
			byAuthor[author] = s
		}
		return s
	}

	for _, g := range groups {
		s := stat(g.Canonical.Author)
		s.UniqueCommits++

		ts := g.Canonical.Timestamp
		if s.FirstCommit.IsZero() || ts.Before(s.FirstCommit) {
			s.FirstCommit = ts
		}
		if s.LastCommit.IsZero() || ts.After(s.LastCommit) {
			s.LastCommit = ts
		}

		for _, occ := range g.Occurrences {
			if occ.Author != g.Canonical.Author {
				warnings = append(warnings, Warning{
					Code: WarnAmbiguousAuthor,
					Message: fmt.Sprintf("fingerprint %.12s: occurrence %s on %s authored by %q, canonical author %q",
						g.Fingerprint, occ.SHA, occ.Branch, occ.Author, g.Canonical.Author),
				})
			}
			stat(occ.Author).ByBranch[occ.Branch]++
		}
	}

	users := make([]UserStat, 0, len(byAuthor))
	for _, s := range byAuthor {
		for b := range s.ByBranch {
			s.Branches = append(s.Branches, b)
		}
		sort.Strings(s.Branches)
		users = append(users, *s)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].UniqueCommits != users[j].UniqueCommits {
			return users[i].UniqueCommits > users[j].UniqueCommits
		}
		return users[i].Author < users[j].Author
	})

	return UserStats{Users: users, Warnings: warnings}
}
