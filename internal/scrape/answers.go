package scrape

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/forum"
	"github.com/JakeFAU/forum-harvester/internal/metrics"
)

// AnswerScraper extracts the answers region of a detail page.
type AnswerScraper struct {
	selectors Selectors
}

// NewAnswerScraper builds a scraper for the given selector set.
func NewAnswerScraper(selectors Selectors) *AnswerScraper {
	return &AnswerScraper{selectors: selectors}
}

// Scrape collapses all answer prose on the page into one single-space
// separated blob. Per-answer boundaries are lost; that matches the
// dataset's documented shape rather than one row per answer. Author,
// reputation, and timestamp stay parallel per-answer sequences. A page
// with zero answers yields every field missing, keeping an absent
// answers section distinct from an empty one.
func (s *AnswerScraper) Scrape(doc *goquery.Document, postURL string) (forum.AnswerRow, error) {
	answers := doc.Find(s.selectors.AnswersContainer)

	row := forum.AnswerRow{
		PostURL: postURL,
		Title:   countMiss(extract.Text(doc.Selection, s.selectors.QuestionTitle)),
	}

	prose := extract.Texts(answers, s.selectors.AnswerText)
	if len(prose) == 0 {
		metrics.SelectorMisses.Inc()
		return row, nil
	}
	row.Text = extract.Some(strings.Join(prose, " "))
	row.Authors = firstLines(extract.Texts(answers, s.selectors.AnswerAuthor))
	row.Reputations = numbers(extract.Texts(answers, s.selectors.AnswerReputation))

	answeredAt, err := timestamps(extract.Attrs(answers, s.selectors.AnswerDate, "title"))
	if err != nil {
		return forum.AnswerRow{}, fmt.Errorf("answers %s: %w", postURL, err)
	}
	row.AnsweredAt = answeredAt
	return row, nil
}

func firstLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, extract.FirstLine(extract.Some(r)).Str())
	}
	return out
}

func numbers(raw []string) []int {
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		out = append(out, extract.Number(extract.Some(r)).Int())
	}
	return out
}

func timestamps(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		tv, err := extract.Timestamp(extract.Some(r))
		if err != nil {
			return nil, err
		}
		out = append(out, tv.Time())
	}
	return out, nil
}
