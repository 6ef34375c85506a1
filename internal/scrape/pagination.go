package scrape

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/fetch"
	"github.com/JakeFAU/forum-harvester/internal/forum"
	"github.com/JakeFAU/forum-harvester/internal/metrics"
)

// WalkState is the lifecycle state of a pagination walk.
type WalkState string

// Walk states. A walker moves Fetching → Fetching … until the last page
// carries no next link (Exhausted) or a fetch fails (Failed).
const (
	StateFetching  WalkState = "fetching"
	StateExhausted WalkState = "exhausted"
	StateFailed    WalkState = "failed"
)

// Walker drives repeated listing-page parses by following "next" links
// until none remain. It yields one PostSummary batch per page, lazily:
// callers that stop early fetch nothing further. A walker is finite and
// non-restartable; link cycles in the page source would walk forever,
// an accepted risk not defended against here.
type Walker struct {
	fetcher fetch.Fetcher
	parser  *ListingParser
	sel     Selectors
	logger  *zap.Logger

	state   WalkState
	nextURL string
	// onPage, when set, receives every raw listing page (snapshot hook).
	onPage func(ctx context.Context, page fetch.Page)
}

// NewWalker builds a walker starting at the seed listing URL.
func NewWalker(fetcher fetch.Fetcher, sel Selectors, seedURL string, logger *zap.Logger) *Walker {
	return &Walker{
		fetcher: fetcher,
		parser:  NewListingParser(sel),
		sel:     sel,
		logger:  logger,
		state:   StateFetching,
		nextURL: seedURL,
	}
}

// OnPage registers a hook invoked with each fetched listing page before
// parsing.
func (w *Walker) OnPage(hook func(ctx context.Context, page fetch.Page)) {
	w.onPage = hook
}

// State reports the walker's current lifecycle state.
func (w *Walker) State() WalkState {
	return w.state
}

// HasNext reports whether another batch is available.
func (w *Walker) HasNext() bool {
	return w.state == StateFetching
}

// Next fetches and parses the next listing page, returning its batch of
// PostSummary rows. Fetch and parse failures are fatal to the walk: a
// listing chain with a broken link cannot produce a trustworthy partial
// dataset.
func (w *Walker) Next(ctx context.Context) ([]forum.PostSummary, error) {
	if w.state != StateFetching {
		return nil, fmt.Errorf("walker is %s, no further pages", w.state)
	}

	pageURL := w.nextURL
	page, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		w.state = StateFailed
		metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("fetch listing page %s: %w", pageURL, err)
	}
	metrics.PagesFetched.Inc()
	if w.onPage != nil {
		w.onPage(ctx, page)
	}

	batch, err := w.parser.Parse(page)
	if err != nil {
		w.state = StateFailed
		return nil, err
	}

	w.advance(page)
	w.logger.Info("Parsed listing page",
		zap.String("url", pageURL),
		zap.Int("posts", len(batch)),
		zap.String("state", string(w.state)),
	)
	return batch, nil
}

// advance locates the next-page link and either queues it or exhausts
// the walk. The href is resolved against the fetched page, so
// host-relative links gain the site's scheme and host.
func (w *Walker) advance(page fetch.Page) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		w.state = StateExhausted
		return
	}
	href := extract.Attr(doc.Selection, w.sel.NextLink, "href")
	if !href.Present() || href.Str() == "" {
		w.state = StateExhausted
		return
	}
	w.nextURL = resolveHref(page.FinalURL, href.Str())
	w.state = StateFetching
}

// WalkAll drains the walker into one ordered PostSummary slice.
func (w *Walker) WalkAll(ctx context.Context) ([]forum.PostSummary, error) {
	var posts []forum.PostSummary
	for w.HasNext() {
		batch, err := w.Next(ctx)
		if err != nil {
			return nil, err
		}
		posts = append(posts, batch...)
	}
	return posts, nil
}
