package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		UserAgent:          "forum-harvester-test/1.0",
		RequestTimeout:     5 * time.Second,
		RateLimitPerDomain: 100,
	}
}

func TestCollyFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f, err := NewCollyFetcher(testConfig(), zap.NewNop())
	require.NoError(t, err)

	page, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Contains(t, string(page.Body), "ok")
	require.Equal(t, srv.URL, page.URL)
	require.Positive(t, page.ContentLength())
}

func TestCollyFetcher_FetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, err := NewCollyFetcher(testConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.UserAgent = ""
	require.Error(t, bad.Validate())

	bad = cfg
	bad.RequestTimeout = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.RateLimitPerDomain = 0
	require.Error(t, bad.Validate())
}

type flakyFetcher struct {
	failures int
	calls    int
}

func (f *flakyFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	f.calls++
	if f.calls <= f.failures {
		return Page{}, errors.New("transient")
	}
	return Page{URL: rawURL, StatusCode: http.StatusOK, Body: []byte("ok")}, nil
}

func TestRetryingFetcher_RecoversFromTransientFailure(t *testing.T) {
	inner := &flakyFetcher{failures: 2}
	f := NewRetryingFetcher(inner, NewExponentialRetryPolicy(), zap.NewNop())

	page, err := f.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Equal(t, 3, inner.calls)
}

func TestRetryingFetcher_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyFetcher{failures: 10}
	f := NewRetryingFetcher(inner, NewExponentialRetryPolicy(), zap.NewNop())

	_, err := f.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	require.Equal(t, 3, inner.calls)
}

func TestRetryPolicy_WithMaxAttempts(t *testing.T) {
	inner := &flakyFetcher{failures: 10}
	policy := NewExponentialRetryPolicy().WithMaxAttempts(1)
	f := NewRetryingFetcher(inner, policy, zap.NewNop())

	_, err := f.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	require.Equal(t, 1, inner.calls)

	// Zero keeps the default budget.
	require.Equal(t, 3, NewExponentialRetryPolicy().WithMaxAttempts(0).maxAttempts)
}

func TestRetryPolicy_DoesNotRetryCancellation(t *testing.T) {
	p := NewExponentialRetryPolicy()
	require.False(t, p.ShouldRetry(context.Canceled, 1))
	require.False(t, p.ShouldRetry(nil, 1))
	require.True(t, p.ShouldRetry(errors.New("connection reset"), 1))
	require.False(t, p.ShouldRetry(errors.New("connection reset"), 3))
}

func TestRetryPolicy_BackoffGrowsAndCaps(t *testing.T) {
	p := NewExponentialRetryPolicy()
	for attempt := 0; attempt < 8; attempt++ {
		d := p.Backoff(attempt)
		require.Positive(t, d)
		require.LessOrEqual(t, d, p.maxDelay)
	}
}
