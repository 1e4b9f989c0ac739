package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/commitscope/commitscope-go/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher pulls the complete branch/commit set for repositories. Branch
// fetches run in parallel under a concurrency bound; the rate limiter and
// backoff live in the Client underneath.
type Fetcher struct {
	client         *Client
	maxConcurrency int
	logger         *logrus.Logger
}

// NewFetcher creates a fetcher over an existing client
func NewFetcher(client *Client, maxConcurrency int, logger *logrus.Logger) *Fetcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fetcher{
		client:         client,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// RepoData is everything the analysis stage needs for one repository:
// the fixed branch enumeration order and every raw commit occurrence,
// grouped in branch order.
type RepoData struct {
	Repository string
	Branches   []string
	Commits    []models.RawCommit
}

// FetchRepository enumerates branches (optionally narrowed to branchFilter)
// and fetches every branch's commits plus per-commit file stats. All
// branches complete before returning: cross-branch dedup needs the full set.
func (f *Fetcher) FetchRepository(ctx context.Context, ref models.RepoRef, branchFilter []string) (*RepoData, error) {
	branches, err := f.client.ListBranches(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("enumerate branches for %s: %w", ref, err)
	}
	if len(branchFilter) > 0 {
		branches = narrowBranches(branches, branchFilter)
	}

	f.logger.WithFields(logrus.Fields{
		"repository": ref.String(),
		"branches":   len(branches),
	}).Info("fetching commits")

	// One slot per branch keeps results in enumeration order regardless of
	// which fetch finishes first.
	perBranch := make([][]models.RawCommit, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrency)
	for i, branch := range branches {
		i, branch := i, branch
		g.Go(func() error {
			commits, err := f.client.ListCommits(gctx, ref, branch)
			if err != nil {
				return err
			}
			perBranch[i] = commits
			f.logger.WithFields(logrus.Fields{
				"repository": ref.String(),
				"branch":     branch,
				"commits":    len(commits),
			}).Debug("branch fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}

	data := &RepoData{Repository: ref.String(), Branches: branches}
	for _, commits := range perBranch {
		data.Commits = append(data.Commits, commits...)
	}

	if err := f.attachChangeStats(ctx, ref, data); err != nil {
		return nil, fmt.Errorf("fetch change stats for %s: %w", ref, err)
	}

	return data, nil
}

// changeDetail is the per-SHA detail shared by every branch occurrence of
// the same commit, fetched once per repository run.
type changeDetail struct {
	files []models.FileChange
	patch string
}

// attachChangeStats fills per-file stats for every distinct SHA. Detail
// fetches run bounded-parallel; a SHA appearing on several branches is
// fetched once and copied to each occurrence.
func (f *Fetcher) attachChangeStats(ctx context.Context, ref models.RepoRef, data *RepoData) error {
	distinct := make(map[string]struct{}, len(data.Commits))
	var shas []string
	for _, rc := range data.Commits {
		if _, seen := distinct[rc.SHA]; !seen {
			distinct[rc.SHA] = struct{}{}
			shas = append(shas, rc.SHA)
		}
	}

	details := make(map[string]changeDetail, len(shas))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrency)
	for _, sha := range shas {
		sha := sha
		g.Go(func() error {
			files, patch, err := f.client.CommitDetail(gctx, ref, sha)
			if err != nil {
				return err
			}
			mu.Lock()
			details[sha] = changeDetail{files: files, patch: patch}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range data.Commits {
		if d, ok := details[data.Commits[i].SHA]; ok {
			data.Commits[i].Files = d.files
			data.Commits[i].Patch = d.patch
		}
	}

	return nil
}

func narrowBranches(all, filter []string) []string {
	want := make(map[string]struct{}, len(filter))
	for _, b := range filter {
		want[b] = struct{}{}
	}
	kept := make([]string, 0, len(filter))
	for _, b := range all {
		if _, ok := want[b]; ok {
			kept = append(kept, b)
		}
	}
	return kept
}
