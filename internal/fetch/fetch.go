// Package fetch provides the document-fetch collaborator: a Fetcher
// interface the scraping pipeline depends on, a Colly-backed
// implementation, and a retry wrapper for transient failures.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Page is one fetched document.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ContentLength returns the body size in bytes.
func (p Page) ContentLength() int {
	return len(p.Body)
}

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Config captures the knobs that influence fetching behavior. Robots
// compliance, delays, and timeouts all live here; the scrapers never see
// transport concerns.
type Config struct {
	UserAgent          string
	RequestTimeout     time.Duration
	RateLimitPerDomain int
	AllowedDomains     []string
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("fetch user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("fetch request_timeout must be > 0")
	}
	if c.RateLimitPerDomain <= 0 {
		return fmt.Errorf("fetch rate_limit_per_domain must be > 0")
	}
	return nil
}
