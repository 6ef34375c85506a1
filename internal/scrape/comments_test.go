package scrape

import (
	"testing"
	"time"
)

func TestCommentScraper_ScopedToAnswersRegion(t *testing.T) {
	doc := docFromHTML(t, detailPageFull)
	s := NewCommentScraper(DefaultSelectors())

	row, err := s.Scrape(doc, "https://forum.example/questions/1")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if row.Text.Str() != "Seconded. Please don't." {
		t.Fatalf("comment blob: %q", row.Text.Str())
	}
	if len(row.Authors) != 2 || row.Authors[0] != "dave" || row.Authors[1] != "frank" {
		t.Fatalf("authors: %v", row.Authors)
	}
	if len(row.PostedAt) != 2 || !row.PostedAt[1].Equal(time.Date(2023, 4, 4, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamps: %v", row.PostedAt)
	}
}

func TestCommentScraper_QuestionCommentsAreOutOfScope(t *testing.T) {
	// The fixture has a comment on the question body but none under the
	// answers region; it must not leak into the row.
	doc := docFromHTML(t, detailPageUnedited)
	s := NewCommentScraper(DefaultSelectors())

	row, err := s.Scrape(doc, "https://forum.example/questions/2")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if row.Text.Present() {
		t.Fatalf("expected missing, got %q", row.Text.Str())
	}
	if len(row.Authors) != 0 || len(row.PostedAt) != 0 {
		t.Fatalf("sequences should be empty: %v %v", row.Authors, row.PostedAt)
	}
}
