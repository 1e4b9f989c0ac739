package models

import (
	"fmt"
	"strings"
	"time"
)

// RepoRef identifies a repository as owner/name
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef resolves a repository string against an optional organization.
// "owner/name" strings carry their own owner; bare names require org to be set.
func ParseRepoRef(org, repo string) (RepoRef, error) {
	if strings.Contains(repo, "/") {
		parts := strings.SplitN(repo, "/", 2)
		if parts[0] == "" || parts[1] == "" {
			return RepoRef{}, fmt.Errorf("invalid repository %q, expected owner/name", repo)
		}
		return RepoRef{Owner: parts[0], Name: parts[1]}, nil
	}
	if org == "" {
		return RepoRef{}, fmt.Errorf("repository %q has no owner and no organization is configured", repo)
	}
	return RepoRef{Owner: org, Name: repo}, nil
}

// String returns the owner/name form
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// FileChange is the per-file stat reported by the API for one commit
type FileChange struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// RawCommit is one commit occurrence as fetched from a branch, before
// normalization. Fields mirror what the GitHub commits API exposes; a
// missing author account leaves AuthorLogin empty with the raw name/email
// pair still present.
type RawCommit struct {
	SHA         string       `json:"sha"`
	AuthorLogin string       `json:"author_login,omitempty"`
	AuthorName  string       `json:"author_name,omitempty"`
	AuthorEmail string       `json:"author_email,omitempty"`
	Message     string       `json:"message"`
	Timestamp   time.Time    `json:"timestamp"`
	ParentSHAs  []string     `json:"parent_shas,omitempty"`
	Files       []FileChange `json:"files,omitempty"`
	Patch       string       `json:"patch,omitempty"`
	Branch      string       `json:"branch"`
	Repository  string       `json:"repository"`
}
