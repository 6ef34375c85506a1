// Package forum defines the record types produced by the scraping
// pipeline and the joined dataset they accumulate into.
package forum

import (
	"time"

	"github.com/JakeFAU/forum-harvester/internal/extract"
)

// PostSummary is one listing-page entry. URL is the unique key within a
// run; every other field carries its own missing sentinel so rows stay
// aligned even on irregular markup.
type PostSummary struct {
	URL        string
	Title      extract.Value
	Excerpt    extract.Value
	Views      extract.IntValue
	Votes      extract.IntValue
	Tags       []string
	PostedAt   extract.TimeValue
	Author     extract.Value
	Reputation extract.IntValue
}

// QuestionDetail holds edit metadata for one post. Both fields are
// missing when the post was never edited.
type QuestionDetail struct {
	PostURL  string
	Editor   extract.Value
	EditedAt extract.TimeValue
}

// BadgeList is the asker's ordered badge counts for one post.
type BadgeList struct {
	PostURL string
	Badges  []string
}

// Display renders the badge list as a single joined string for the
// posts table.
func (b BadgeList) Display() string {
	if len(b.Badges) == 0 {
		return extract.NA
	}
	return extract.JoinTags(b.Badges)
}

// AnswerRow aggregates every answer on one detail page. Text is all
// answer prose concatenated into a single blob; per-answer boundaries
// are discarded, a known limitation carried over from the original
// dataset shape. Authors, reputations, and timestamps stay parallel
// per-answer sequences.
type AnswerRow struct {
	PostURL     string
	Title       extract.Value
	Text        extract.Value
	Authors     []string
	Reputations []int
	AnsweredAt  []time.Time
}

// CommentRow aggregates the comments under a page's answers region,
// with the same blob collapse as AnswerRow. Comments on the question
// body itself are out of scope.
type CommentRow struct {
	PostURL  string
	Text     extract.Value
	Authors  []string
	PostedAt []time.Time
}

// Dataset is the joined output of one traversal run. The detail slices
// are positionally aligned with Posts: exactly one row per post URL, in
// listing order, with sentinel-filled rows standing in for failures.
type Dataset struct {
	RunID     string
	Seed      string
	StartedAt time.Time
	Posts     []PostSummary
	Badges    []BadgeList
	Details   []QuestionDetail
	Answers   []AnswerRow
	Comments  []CommentRow
}

// Aligned reports whether every detail table still holds one row per
// post, the invariant that makes column-wise joining safe.
func (d *Dataset) Aligned() bool {
	n := len(d.Posts)
	return len(d.Badges) == n && len(d.Details) == n && len(d.Answers) == n && len(d.Comments) == n
}
