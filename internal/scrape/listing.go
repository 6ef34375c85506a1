package scrape

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/fetch"
	"github.com/JakeFAU/forum-harvester/internal/forum"
	"github.com/JakeFAU/forum-harvester/internal/metrics"
)

// ListingParser turns one listing page into an ordered sequence of
// PostSummary rows.
type ListingParser struct {
	selectors Selectors
}

// NewListingParser builds a parser for the given selector set.
func NewListingParser(selectors Selectors) *ListingParser {
	return &ListingParser{selectors: selectors}
}

// Parse extracts one PostSummary per post container. The row count
// always equals the container count: per-field extractors run
// independently inside each container, so a missing views node on one
// post fills that cell with the sentinel instead of shifting every later
// row. A malformed timestamp aborts the page; that shape change must
// surface, unlike ordinary absence.
func (p *ListingParser) Parse(page fetch.Page) ([]forum.PostSummary, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", page.URL, err)
	}

	containers := doc.Find(p.selectors.PostContainer)
	posts := make([]forum.PostSummary, 0, containers.Length())
	var parseErr error

	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		post, err := p.parseContainer(container, page.FinalURL)
		if err != nil {
			parseErr = fmt.Errorf("listing %s container %d: %w", page.URL, i, err)
			return false
		}
		posts = append(posts, post)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	metrics.PostsScraped.Add(float64(len(posts)))
	return posts, nil
}

func (p *ListingParser) parseContainer(container *goquery.Selection, pageURL string) (forum.PostSummary, error) {
	postedAt, err := extract.Timestamp(extract.Attr(container, p.selectors.PostDate, "title"))
	if err != nil {
		return forum.PostSummary{}, err
	}

	post := forum.PostSummary{
		URL:        resolveHref(pageURL, extract.Attr(container, p.selectors.TitleLink, "href").Str()),
		Title:      countMiss(extract.Text(container, p.selectors.TitleLink)),
		Excerpt:    countMiss(extract.Text(container, p.selectors.Excerpt)),
		Views:      extract.Number(countMiss(extract.Text(container, p.selectors.Views))),
		Votes:      extract.Number(countMiss(extract.Text(container, p.selectors.Votes))),
		Tags:       extract.Tags(extract.Attr(container, p.selectors.TagBox, "class"), p.selectors.TagPrefix),
		PostedAt:   postedAt,
		Author:     extract.FirstLine(countMiss(extract.Text(container, p.selectors.Author))),
		Reputation: extract.Number(countMiss(extract.Text(container, p.selectors.Reputation))),
	}
	return post, nil
}

// countMiss bumps the selector-miss counter for absent fields on the way
// through.
func countMiss(v extract.Value) extract.Value {
	if !v.Present() {
		metrics.SelectorMisses.Inc()
	}
	return v
}

// resolveHref makes a possibly host-relative href absolute against the
// page it was found on. An unparseable href is returned as-is; the URL
// column is the row key and must never go missing silently.
func resolveHref(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
