package scrape

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/forum-harvester/internal/extract"
	"github.com/JakeFAU/forum-harvester/internal/forum"
)

// QuestionScraper extracts edit metadata and asker badges from a post's
// detail page.
type QuestionScraper struct {
	selectors Selectors
}

// NewQuestionScraper builds a scraper for the given selector set.
func NewQuestionScraper(selectors Selectors) *QuestionScraper {
	return &QuestionScraper{selectors: selectors}
}

// Detail extracts editor name and edit timestamp from the question
// container. A post that was never edited has zero editor and zero
// edit-timestamp nodes; both fields resolve to the missing sentinel,
// never an error. That guarantee comes from the extractor contract, not
// per-call length checks.
func (s *QuestionScraper) Detail(doc *goquery.Document, postURL string) (forum.QuestionDetail, error) {
	question := doc.Find(s.selectors.QuestionContainer)

	editedAt, err := extract.Timestamp(extract.Attr(question, s.selectors.EditDate, "title"))
	if err != nil {
		return forum.QuestionDetail{}, fmt.Errorf("question %s: %w", postURL, err)
	}

	return forum.QuestionDetail{
		PostURL:  postURL,
		Editor:   extract.FirstLine(countMiss(extract.Text(question, s.selectors.Editor))),
		EditedAt: editedAt,
	}, nil
}

// Badges extracts the asker's ordered badge counts from the question
// container. An asker with no badges yields an empty list, rendered as
// the sentinel at the table boundary.
func (s *QuestionScraper) Badges(doc *goquery.Document, postURL string) forum.BadgeList {
	question := doc.Find(s.selectors.QuestionContainer)
	return forum.BadgeList{
		PostURL: postURL,
		Badges:  extract.Texts(question, s.selectors.AskerBadges),
	}
}
