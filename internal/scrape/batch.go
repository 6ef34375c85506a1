package scrape

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/fetch"
	"github.com/JakeFAU/forum-harvester/internal/metrics"
)

// DetailScraper is a per-post scraper applied to one fetched and parsed
// detail document. The document and post URL arrive as explicit
// arguments; scrapers never read ambient state.
type DetailScraper[T any] func(doc *goquery.Document, postURL string) (T, error)

// Aggregator applies a per-post scraper across a collection of post
// URLs, one fetch per URL, in order.
type Aggregator struct {
	fetcher fetch.Fetcher
	logger  *zap.Logger
	onPage  func(ctx context.Context, page fetch.Page)
}

// NewAggregator builds an Aggregator over the given fetcher.
func NewAggregator(fetcher fetch.Fetcher, logger *zap.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, logger: logger}
}

// OnPage registers a hook invoked with each fetched detail page before
// scraping.
func (a *Aggregator) OnPage(hook func(ctx context.Context, page fetch.Page)) {
	a.onPage = hook
}

// Collect runs scrape over every URL and returns exactly one row per
// input URL, in input order. A fetch or parse failure for one URL is
// isolated: it logs, counts, and contributes the sentinel-filled row
// from missing() instead of shrinking the batch. Partial datasets stay
// useful; the batch itself never aborts.
func Collect[T any](ctx context.Context, a *Aggregator, urls []string, scrape DetailScraper[T], missing func(postURL string) T) []T {
	rows := make([]T, 0, len(urls))
	for _, postURL := range urls {
		row, err := scrapeOne(ctx, a, postURL, scrape)
		if err != nil {
			metrics.DetailFailures.Inc()
			a.logger.Warn("Detail scrape failed, filling sentinel row",
				zap.String("url", postURL),
				zap.Error(err),
			)
			rows = append(rows, missing(postURL))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func scrapeOne[T any](ctx context.Context, a *Aggregator, postURL string, scrape DetailScraper[T]) (T, error) {
	var zero T
	page, err := a.fetcher.Fetch(ctx, postURL)
	if err != nil {
		metrics.FetchErrors.Inc()
		return zero, err
	}
	metrics.PagesFetched.Inc()
	if a.onPage != nil {
		a.onPage(ctx, page)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return zero, err
	}
	return scrape(doc, postURL)
}
