package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/forum"
	"github.com/JakeFAU/forum-harvester/internal/metrics"
)

// CommentScraper extracts the comments nested under a detail page's
// answers region. Comments on the question body itself are deliberately
// out of scope.
type CommentScraper struct {
	selectors Selectors
}

// NewCommentScraper builds a scraper for the given selector set.
func NewCommentScraper(selectors Selectors) *CommentScraper {
	return &CommentScraper{selectors: selectors}
}

// Scrape joins all comment text under the answers region into one blob,
// with parallel author and timestamp sequences. An empty comment list
// yields every field missing.
func (s *CommentScraper) Scrape(doc *goquery.Document, postURL string) (forum.CommentRow, error) {
	answers := doc.Find(s.selectors.AnswersContainer)

	row := forum.CommentRow{PostURL: postURL}

	bodies := extract.Texts(answers, s.selectors.CommentText)
	if len(bodies) == 0 {
		metrics.SelectorMisses.Inc()
		return row, nil
	}
	row.Text = extract.Some(strings.Join(bodies, " "))
	row.Authors = firstLines(extract.Texts(answers, s.selectors.CommentAuthor))

	postedAt, err := timestamps(extract.Attrs(answers, s.selectors.CommentDate, "title"))
	if err != nil {
		return forum.CommentRow{}, fmt.Errorf("comments %s: %w", postURL, err)
	}
	row.PostedAt = postedAt
	return row, nil
}
