package render

import (
	"testing"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/stretchr/testify/require"
)

func TestQuestion(t *testing.T) {
	s := turn.Initial(turn.Config{TotalQuestions: 3})
	s.QuestionIndex = 2
	s.CurrentQuestionDisplay = "Why us?"
	s.Tips = []turn.Tip{
		{Kind: turn.TipQuestion, Text: "old tip", QuestionIndex: 1},
		{Kind: turn.TipQuestion, Text: "Be specific.", QuestionIndex: 2},
	}

	require.Equal(t, "❓ Question 2 of 3\n\nWhy us?\n\n💡 Be specific.", Question(s))

	s.FollowUpCount = 1
	require.Contains(t, Question(s), "Follow-up on question 2")
}

func TestReport(t *testing.T) {
	out := Report(&entity.FinalReport{
		OverallScore: 7,
		Summary:      "Solid.",
		Strengths:    []string{"Clear"},
	})

	require.Contains(t, out, "Overall: 7.0 / 10")
	require.Contains(t, out, "Solid.")
	require.Contains(t, out, "💪 Strengths:\n• Clear")
	require.NotContains(t, out, "To improve")
}
