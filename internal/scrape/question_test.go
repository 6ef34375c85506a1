package scrape

import (
	"testing"
	"time"
)

func TestQuestionScraper_EditedPost(t *testing.T) {
	doc := docFromHTML(t, detailPageFull)
	s := NewQuestionScraper(DefaultSelectors())

	detail, err := s.Detail(doc, "https://forum.example/questions/1")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Editor.Str() != "bob" {
		t.Fatalf("editor: %q", detail.Editor.Str())
	}
	want := time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC)
	if !detail.EditedAt.Time().Equal(want) {
		t.Fatalf("edited at: %v", detail.EditedAt.Time())
	}
}

func TestQuestionScraper_NeverEditedYieldsSentinelsNotError(t *testing.T) {
	doc := docFromHTML(t, detailPageUnedited)
	s := NewQuestionScraper(DefaultSelectors())

	detail, err := s.Detail(doc, "https://forum.example/questions/2")
	if err != nil {
		t.Fatalf("an unedited post must not error: %v", err)
	}
	if detail.Editor.Present() {
		t.Fatalf("editor should be missing, got %q", detail.Editor.Str())
	}
	if detail.EditedAt.Present() {
		t.Fatalf("edit timestamp should be missing, got %v", detail.EditedAt.Time())
	}
}

func TestQuestionScraper_Badges(t *testing.T) {
	doc := docFromHTML(t, detailPageFull)
	s := NewQuestionScraper(DefaultSelectors())

	badges := s.Badges(doc, "https://forum.example/questions/1")
	if len(badges.Badges) != 3 {
		t.Fatalf("badges: %v", badges.Badges)
	}
	if badges.Display() != "2, 11, 37" {
		t.Fatalf("badge display: %q", badges.Display())
	}

	empty := s.Badges(docFromHTML(t, detailPageUnedited), "https://forum.example/questions/2")
	if len(empty.Badges) != 0 {
		t.Fatalf("expected no badges, got %v", empty.Badges)
	}
	if empty.Display() != "NA" {
		t.Fatalf("empty badge display: %q", empty.Display())
	}
}
