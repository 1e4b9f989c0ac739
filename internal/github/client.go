package github

import (
	"context"
	"fmt"
	"time"

	"github.com/commitscope/commitscope-go/internal/errors"
	"github.com/commitscope/commitscope-go/internal/models"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	perPage    = 100
	maxRetries = 3
	maxBackoff = 5 * time.Minute
)

// Client wraps the GitHub API client with rate limiting and backoff
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewClient creates a new GitHub client with rate limiting
func NewClient(token string, rateLimit int, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		client:      github.NewClient(nil).WithAuthToken(token),
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:      logger,
	}
}

// call runs one API request under the rate limiter, sleeping and retrying
// when GitHub signals rate-limit exhaustion.
func (c *Client) call(ctx context.Context, what string, fn func() (*github.Response, error)) error {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		_, err := fn()
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return errors.ExternalErrorf(err, "%s: retries exhausted", what)
		}

		wait, retryable := backoffFor(err)
		if !retryable {
			return errors.ExternalErrorf(err, "%s", what)
		}

		c.logger.WithFields(logrus.Fields{
			"operation": what,
			"wait":      wait,
			"attempt":   attempt + 1,
		}).Warn("GitHub rate limit hit, backing off")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// backoffFor extracts the wait time GitHub asked for, if the error is a
// rate-limit signal.
func backoffFor(err error) (time.Duration, bool) {
	if rlErr, ok := err.(*github.RateLimitError); ok {
		wait := time.Until(rlErr.Rate.Reset.Time) + time.Second
		return clampBackoff(wait), true
	}
	if abuseErr, ok := err.(*github.AbuseRateLimitError); ok {
		wait := 30 * time.Second
		if abuseErr.RetryAfter != nil {
			wait = *abuseErr.RetryAfter
		}
		return clampBackoff(wait), true
	}
	return 0, false
}

func clampBackoff(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// ListBranches enumerates every branch of a repository, fully paginated.
// The returned order is the API's enumeration order and downstream stages
// treat it as the fixed branch order for canonical tie-breaks.
func (c *Client) ListBranches(ctx context.Context, ref models.RepoRef) ([]string, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var branches []string
	for {
		var (
			page []*github.Branch
			resp *github.Response
		)
		err := c.call(ctx, "list branches", func() (*github.Response, error) {
			var err error
			page, resp, err = c.client.Repositories.ListBranches(ctx, ref.Owner, ref.Name, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		for _, b := range page {
			branches = append(branches, b.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// ListCommits retrieves every commit reachable from one branch, fully
// paginated. File stats are not populated here; CommitDetail fills them.
func (c *Client) ListCommits(ctx context.Context, ref models.RepoRef, branch string) ([]models.RawCommit, error) {
	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var commits []models.RawCommit
	for {
		var (
			page []*github.RepositoryCommit
			resp *github.Response
		)
		err := c.call(ctx, fmt.Sprintf("list commits on %s", branch), func() (*github.Response, error) {
			var err error
			page, resp, err = c.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		for _, rc := range page {
			commits = append(commits, toRawCommit(rc, branch, ref.String()))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// CommitDetail fetches the full commit, including per-file stats and patches
func (c *Client) CommitDetail(ctx context.Context, ref models.RepoRef, sha string) ([]models.FileChange, string, error) {
	var detail *github.RepositoryCommit
	err := c.call(ctx, fmt.Sprintf("get commit %s", sha), func() (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		detail, resp, err = c.client.Repositories.GetCommit(ctx, ref.Owner, ref.Name, sha, nil)
		return resp, err
	})
	if err != nil {
		return nil, "", err
	}

	var (
		files []models.FileChange
		patch string
	)
	for _, f := range detail.Files {
		files = append(files, models.FileChange{
			Path:      f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
		if patch == "" && f.GetPatch() != "" {
			patch = f.GetPatch()
		}
	}

	return files, patch, nil
}

func toRawCommit(rc *github.RepositoryCommit, branch, repository string) models.RawCommit {
	raw := models.RawCommit{
		SHA:         rc.GetSHA(),
		AuthorLogin: rc.GetAuthor().GetLogin(),
		AuthorName:  rc.GetCommit().GetAuthor().GetName(),
		AuthorEmail: rc.GetCommit().GetAuthor().GetEmail(),
		Message:     rc.GetCommit().GetMessage(),
		Timestamp:   rc.GetCommit().GetAuthor().GetDate().Time,
		Branch:      branch,
		Repository:  repository,
	}
	for _, parent := range rc.Parents {
		raw.ParentSHAs = append(raw.ParentSHAs, parent.GetSHA())
	}
	return raw
}
