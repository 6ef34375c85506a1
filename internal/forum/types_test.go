package forum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/forum-harvester/internal/extract"
)

func TestDataset_Aligned(t *testing.T) {
	ds := &Dataset{
		Posts:    []PostSummary{{URL: "a"}, {URL: "b"}},
		Badges:   []BadgeList{{PostURL: "a"}, {PostURL: "b"}},
		Details:  []QuestionDetail{{PostURL: "a"}, {PostURL: "b"}},
		Answers:  []AnswerRow{{PostURL: "a"}, {PostURL: "b"}},
		Comments: []CommentRow{{PostURL: "a"}, {PostURL: "b"}},
	}
	require.True(t, ds.Aligned())

	ds.Answers = ds.Answers[:1]
	require.False(t, ds.Aligned())
}

func TestBadgeList_Display(t *testing.T) {
	require.Equal(t, extract.NA, BadgeList{}.Display())
	require.Equal(t, "2, 11, 37", BadgeList{Badges: []string{"2", "11", "37"}}.Display())
}
