package scrape

import (
	"testing"
	"time"

	"github.com/JakeFAU/forum-harvester/internal/fetch"
)

func TestListingParser_RowCountEqualsContainerCount(t *testing.T) {
	page := listingPage("",
		postContainer("1", "First", "15 views", "3", "tags t-go t-http"),
		postContainer("2", "Second", "", "0", "tags t-go"),
		postContainer("3", "Third", "1,234 views", "42", "tags"),
	)
	parser := NewListingParser(DefaultSelectors())
	posts, err := parser.Parse(fetch.Page{
		URL:      "https://forum.example/questions/tagged/go",
		FinalURL: "https://forum.example/questions/tagged/go",
		Body:     []byte(page),
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 rows for 3 containers, got %d", len(posts))
	}

	// The canonical views scenario: present, absent node, present with
	// separator. The absent middle cell must be the sentinel, not a
	// shifted value.
	if !posts[0].Views.Present() || posts[0].Views.Int() != 15 {
		t.Fatalf("row 0 views: %+v", posts[0].Views)
	}
	if posts[1].Views.Present() {
		t.Fatalf("row 1 views should be missing, got %d", posts[1].Views.Int())
	}
	if !posts[2].Views.Present() || posts[2].Views.Int() != 1234 {
		t.Fatalf("row 2 views: %+v", posts[2].Views)
	}
}

func TestListingParser_FieldExtraction(t *testing.T) {
	page := listingPage("", postContainer("1", "First", "15 views", "3", "tags t-go t-http"))
	parser := NewListingParser(DefaultSelectors())
	posts, err := parser.Parse(fetch.Page{
		URL:      "https://forum.example/questions/tagged/go",
		FinalURL: "https://forum.example/questions/tagged/go",
		Body:     []byte(page),
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 row, got %d", len(posts))
	}
	p := posts[0]

	if p.URL != "https://forum.example/questions/1" {
		t.Fatalf("post URL not resolved: %q", p.URL)
	}
	if p.Title.Str() != "First" {
		t.Fatalf("title: %q", p.Title.Str())
	}
	if p.Excerpt.Str() != "Excerpt for First" {
		t.Fatalf("excerpt: %q", p.Excerpt.Str())
	}
	if p.Votes.Int() != 3 {
		t.Fatalf("votes: %+v", p.Votes)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "http" {
		t.Fatalf("tags: %v", p.Tags)
	}
	want := time.Date(2023, 4, 1, 9, 30, 0, 0, time.UTC)
	if !p.PostedAt.Time().Equal(want) {
		t.Fatalf("posted at: %v", p.PostedAt.Time())
	}
	// Display blocks carry secondary lines below the name.
	if p.Author.Str() != "alice" {
		t.Fatalf("author: %q", p.Author.Str())
	}
	if p.Reputation.Int() != 1024 {
		t.Fatalf("reputation: %+v", p.Reputation)
	}
}

func TestListingParser_TagBoxWithoutTags(t *testing.T) {
	page := listingPage("", postContainer("1", "First", "15 views", "3", "tags"))
	parser := NewListingParser(DefaultSelectors())
	posts, err := parser.Parse(fetch.Page{
		URL:      "https://forum.example/q",
		FinalURL: "https://forum.example/q",
		Body:     []byte(page),
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(posts[0].Tags) != 0 {
		t.Fatalf("expected no tags, got %v", posts[0].Tags)
	}
}

func TestListingParser_MalformedTimestampFailsLoudly(t *testing.T) {
	bad := `<div class="question-summary">
	  <span class="relativetime" title="yesterday, more or less">?</span>
	</div>`
	parser := NewListingParser(DefaultSelectors())
	_, err := parser.Parse(fetch.Page{
		URL:      "https://forum.example/q",
		FinalURL: "https://forum.example/q",
		Body:     []byte(listingPage("", bad)),
	})
	if err == nil {
		t.Fatal("malformed timestamp must abort the page parse")
	}
}
