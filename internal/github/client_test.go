package github

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/commitscope/commitscope-go/internal/errors"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testClient() *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Client{
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
		logger:      logger,
	}
}

func TestCallWrapsUpstreamFailure(t *testing.T) {
	c := testClient()
	upstream := fmt.Errorf("502 from api.github.com")

	calls := 0
	err := c.call(context.Background(), "list branches", func() (*github.Response, error) {
		calls++
		return nil, upstream
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))
	assert.ErrorIs(t, err, upstream)
	// Not a rate-limit signal, so no retries.
	assert.Equal(t, 1, calls)
}

func TestCallSucceedsWithoutWrapping(t *testing.T) {
	c := testClient()
	err := c.call(context.Background(), "list branches", func() (*github.Response, error) {
		return nil, nil
	})
	assert.NoError(t, err)
}

func TestBackoffForRateLimitSignals(t *testing.T) {
	rl := &github.RateLimitError{
		Rate: github.Rate{Reset: github.Timestamp{Time: time.Now().Add(2 * time.Second)}},
	}
	wait, retryable := backoffFor(rl)
	assert.True(t, retryable)
	assert.GreaterOrEqual(t, wait, time.Second)

	retryAfter := 10 * time.Second
	abuse := &github.AbuseRateLimitError{RetryAfter: &retryAfter}
	wait, retryable = backoffFor(abuse)
	assert.True(t, retryable)
	assert.Equal(t, retryAfter, wait)

	_, retryable = backoffFor(fmt.Errorf("plain failure"))
	assert.False(t, retryable)
}
