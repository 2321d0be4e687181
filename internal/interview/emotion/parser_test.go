package emotion

import (
	"testing"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		clean   string
		emotion entity.Emotion
	}{
		{
			name:    "leading tag",
			raw:     "[warm smile] Tell me about yourself",
			clean:   "Tell me about yourself",
			emotion: entity.EmotionWarmSmile,
		},
		{
			name:    "no tags",
			raw:     "No tags here",
			clean:   "No tags here",
			emotion: entity.EmotionNeutral,
		},
		{
			name:    "case insensitive",
			raw:     "[Lean Forward] Walk me through it.",
			clean:   "Walk me through it.",
			emotion: entity.EmotionLeanForward,
		},
		{
			name:    "tag in the middle",
			raw:     "Interesting. [thinking] How did you measure it?",
			clean:   "Interesting. How did you measure it?",
			emotion: entity.EmotionThinking,
		},
		{
			name:    "first tag in text wins and all are removed",
			raw:     "[nod] Great. [curious] What happened next? [nod]",
			clean:   "Great. What happened next?",
			emotion: entity.EmotionNod,
		},
		{
			name:    "unknown bracket is kept",
			raw:     "[laughs] Describe [your] role",
			clean:   "[laughs] Describe [your] role",
			emotion: entity.EmotionNeutral,
		},
		{
			name:    "unknown kept while known removed",
			raw:     "[smile] Pick one: [a] or [b]",
			clean:   "Pick one: [a] or [b]",
			emotion: entity.EmotionSmile,
		},
		{
			name:    "spacing elsewhere is preserved",
			raw:     "[nod] Step one:  gather requirements.",
			clean:   "Step one:  gather requirements.",
			emotion: entity.EmotionNod,
		},
		{
			name:    "adjacent tags",
			raw:     "[nod][smile] Welcome back.",
			clean:   "Welcome back.",
			emotion: entity.EmotionNod,
		},
		{
			name:    "tag on its own line",
			raw:     "Thanks.\n[thinking]\nWhat would you change?",
			clean:   "Thanks.\n\nWhat would you change?",
			emotion: entity.EmotionThinking,
		},
		{
			name:    "extra whitespace inside tag",
			raw:     "[warm  smile] Tell me about yourself",
			clean:   "Tell me about yourself",
			emotion: entity.EmotionWarmSmile,
		},
		{
			name:    "tab between tag words",
			raw:     "Go on. [lean\tforward] What next?",
			clean:   "Go on. What next?",
			emotion: entity.EmotionLeanForward,
		},
		{
			name:    "malformed bracket",
			raw:     "[warm smile Tell me more",
			clean:   "[warm smile Tell me more",
			emotion: entity.EmotionNeutral,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			require.Equal(t, tc.clean, got.Clean)
			require.Equal(t, tc.emotion, got.Emotion)
		})
	}
}

func TestParseIsPure(t *testing.T) {
	raw := "[serious] Why do you want to leave?"
	require.Equal(t, Parse(raw), Parse(raw))
}
