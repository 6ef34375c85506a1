// Package scrape implements the page-level parsers and the multi-page
// traversal that turn forum markup into the joined dataset.
package scrape

import (
	"fmt"

	"github.com/spf13/viper"
)

// Selectors names every structural selector the scrapers use. Keeping
// them in configuration means a markup change is a config change, not a
// code change. Defaults match the forum's listing and detail layout.
type Selectors struct {
	// Listing page.
	PostContainer string
	Views         string
	Votes         string
	TitleLink     string
	Excerpt       string
	TagBox        string
	PostDate      string
	Author        string
	Reputation    string
	NextLink      string

	// Question detail page.
	QuestionContainer string
	QuestionTitle     string
	Editor            string
	EditDate          string
	AskerBadges       string

	// Answers region.
	AnswersContainer string
	AnswerText       string
	AnswerAuthor     string
	AnswerReputation string
	AnswerDate       string

	// Comments scoped under the answers region.
	CommentText   string
	CommentAuthor string
	CommentDate   string

	// TagPrefix is the class-token prefix marking tag names in TagBox's
	// class attribute, e.g. "t-" in "tags t-go t-http".
	TagPrefix string
}

// DefaultSelectors returns the selector set for the forum's current
// markup.
func DefaultSelectors() Selectors {
	return Selectors{
		PostContainer: ".question-summary",
		Views:         ".views",
		Votes:         ".vote-count-post",
		TitleLink:     "a.question-hyperlink",
		Excerpt:       ".excerpt",
		TagBox:        ".tags",
		PostDate:      ".relativetime",
		Author:        ".user-details a",
		Reputation:    ".reputation-score",
		NextLink:      `a[rel="next"]`,

		QuestionContainer: "#question",
		QuestionTitle:     "#question-header h1 a",
		Editor:            ".post-signature:not(.owner) .user-details a",
		EditDate:          ".post-signature:not(.owner) .user-action-time .relativetime",
		AskerBadges:       ".post-signature.owner .badgecount",

		AnswersContainer: "#answers",
		AnswerText:       ".answercell .post-text",
		AnswerAuthor:     ".answercell .user-details a",
		AnswerReputation: ".answercell .reputation-score",
		AnswerDate:       ".answercell .user-action-time .relativetime",

		CommentText:   ".comment-copy",
		CommentAuthor: ".comment-user",
		CommentDate:   ".comment-date span",

		TagPrefix: "t-",
	}
}

// LoadSelectors reads selector overrides from Viper on top of the
// defaults.
func LoadSelectors(v *viper.Viper) Selectors {
	s := DefaultSelectors()
	override := func(key string, target *string) {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}
	override("selectors.post_container", &s.PostContainer)
	override("selectors.views", &s.Views)
	override("selectors.votes", &s.Votes)
	override("selectors.title_link", &s.TitleLink)
	override("selectors.excerpt", &s.Excerpt)
	override("selectors.tag_box", &s.TagBox)
	override("selectors.post_date", &s.PostDate)
	override("selectors.author", &s.Author)
	override("selectors.reputation", &s.Reputation)
	override("selectors.next_link", &s.NextLink)
	override("selectors.question_container", &s.QuestionContainer)
	override("selectors.question_title", &s.QuestionTitle)
	override("selectors.editor", &s.Editor)
	override("selectors.edit_date", &s.EditDate)
	override("selectors.asker_badges", &s.AskerBadges)
	override("selectors.answers_container", &s.AnswersContainer)
	override("selectors.answer_text", &s.AnswerText)
	override("selectors.answer_author", &s.AnswerAuthor)
	override("selectors.answer_reputation", &s.AnswerReputation)
	override("selectors.answer_date", &s.AnswerDate)
	override("selectors.comment_text", &s.CommentText)
	override("selectors.comment_author", &s.CommentAuthor)
	override("selectors.comment_date", &s.CommentDate)
	override("selectors.tag_prefix", &s.TagPrefix)
	return s
}

// Validate rejects an empty container or pagination selector; field
// selectors may legitimately miss, containers may not.
func (s Selectors) Validate() error {
	if s.PostContainer == "" {
		return fmt.Errorf("selectors.post_container must be set")
	}
	if s.NextLink == "" {
		return fmt.Errorf("selectors.next_link must be set")
	}
	if s.QuestionContainer == "" {
		return fmt.Errorf("selectors.question_container must be set")
	}
	if s.AnswersContainer == "" {
		return fmt.Errorf("selectors.answers_container must be set")
	}
	return nil
}
