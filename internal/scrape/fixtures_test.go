package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/forum-harvester/internal/fetch"
)

// stubFetcher serves canned pages keyed by URL, recording fetch order.
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		pages: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (fetch.Page, error) {
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return fetch.Page{}, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return fetch.Page{}, fmt.Errorf("no fixture for %s", rawURL)
	}
	return fetch.Page{
		URL:        rawURL,
		FinalURL:   rawURL,
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	}, nil
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

// postContainer renders one listing entry. An empty views string omits
// the views node entirely, not just its text.
func postContainer(id, title, views, votes, tags string) string {
	viewsNode := ""
	if views != "" {
		viewsNode = fmt.Sprintf(`<div class="views">%s</div>`, views)
	}
	return fmt.Sprintf(`
<div class="question-summary">
  <div class="statscontainer">
    <span class="vote-count-post">%s</span>
    %s
  </div>
  <h3><a class="question-hyperlink" href="/questions/%s">%s</a></h3>
  <div class="excerpt">Excerpt for %s</div>
  <div class="%s"></div>
  <div class="started">
    <span class="relativetime" title="2023-04-01 09:30:00Z">Apr 1</span>
    <div class="user-details"><a href="/users/1">alice
won't fix</a></div>
    <span class="reputation-score">1,024</span>
  </div>
</div>`, votes, viewsNode, id, title, title, tags)
}

func listingPage(nextHref string, containers ...string) string {
	pager := ""
	if nextHref != "" {
		pager = fmt.Sprintf(`<div class="pager"><a rel="next" href="%s">next</a></div>`, nextHref)
	}
	return fmt.Sprintf(`<html><body>%s%s</body></html>`,
		strings.Join(containers, "\n"), pager)
}

const detailPageFull = `
<html><body>
<div id="question-header"><h1><a class="question-hyperlink" href="/questions/1">How to parse HTML?</a></h1></div>
<div id="question">
  <div class="post-signature owner">
    <div class="user-details"><a href="/users/1">alice</a></div>
    <span class="badgecount">2</span>
    <span class="badgecount">11</span>
    <span class="badgecount">37</span>
  </div>
  <div class="post-signature">
    <div class="user-action-time">edited <span class="relativetime" title="2023-04-02 10:00:00Z">Apr 2</span></div>
    <div class="user-details"><a href="/users/9">bob
editor of things</a></div>
  </div>
</div>
<div id="answers">
  <div class="answer">
    <div class="answercell">
      <div class="post-text">Use a real parser.</div>
      <div class="user-action-time">answered <span class="relativetime" title="2023-04-03 11:00:00Z">Apr 3</span></div>
      <div class="user-details"><a href="/users/5">carol</a></div>
      <span class="reputation-score">2,345</span>
    </div>
    <ul class="comments-list">
      <li>
        <span class="comment-copy">Seconded.</span>
        <a class="comment-user">dave</a>
        <span class="comment-date"><span title="2023-04-03 12:00:00Z">Apr 3</span></span>
      </li>
    </ul>
  </div>
  <div class="answer">
    <div class="answercell">
      <div class="post-text">Regex works until it doesn't.</div>
      <div class="user-action-time">answered <span class="relativetime" title="2023-04-04 08:15:00Z">Apr 4</span></div>
      <div class="user-details"><a href="/users/6">erin</a></div>
      <span class="reputation-score">99</span>
    </div>
    <ul class="comments-list">
      <li>
        <span class="comment-copy">Please don't.</span>
        <a class="comment-user">frank</a>
        <span class="comment-date"><span title="2023-04-04 09:00:00Z">Apr 4</span></span>
      </li>
    </ul>
  </div>
</div>
</body></html>`

// detailPageUnedited has no editor signature, no answers, and question
// comments that must stay out of scope.
const detailPageUnedited = `
<html><body>
<div id="question-header"><h1><a class="question-hyperlink" href="/questions/2">Unanswered question</a></h1></div>
<div id="question">
  <div class="post-signature owner">
    <div class="user-details"><a href="/users/2">grace</a></div>
  </div>
  <ul class="comments-list">
    <li>
      <span class="comment-copy">A comment on the question itself.</span>
      <a class="comment-user">heidi</a>
      <span class="comment-date"><span title="2023-04-05 10:00:00Z">Apr 5</span></span>
    </li>
  </ul>
</div>
<div id="answers"></div>
</body></html>`
