package protip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{name: "self introduction", question: "Tell me about yourself.", want: groups[0].tip},
		{name: "challenge", question: "Describe a challenge you overcame.", want: groups[1].tip},
		{name: "leadership", question: "Tell us about a time you showed leadership.", want: groups[2].tip},
		{name: "weakness", question: "What is your greatest WEAKNESS?", want: groups[3].tip},
		{name: "why company", question: "Why this company and not another?", want: groups[4].tip},
		{name: "conflict", question: "How do you handle conflict with a peer?", want: groups[5].tip},
		{name: "system design", question: "How would you design a URL shortener?", want: groups[6].tip},
		{name: "fallback", question: "Where do you see yourself in five years?", want: Generic},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Select(tc.question))
		})
	}
}

func TestSelectFirstMatchWins(t *testing.T) {
	// matches both challenge and system design; challenge is checked first
	q := "What was the most difficult system you had to scale?"
	require.Equal(t, groups[1].tip, Select(q))

	// matches both leadership and conflict; leadership is checked first
	q = "How did you lead the team through a disagreement?"
	require.Equal(t, groups[2].tip, Select(q))
}
