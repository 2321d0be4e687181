package followup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "detail"
	}
	return strings.Join(parts, " ")
}

func TestNeedsFollowUp(t *testing.T) {
	tests := []struct {
		name  string
		ans   string
		count int
		want  bool
	}{
		{name: "vague yes first time", ans: "yes", count: 0, want: true},
		{name: "vague yes at cap", ans: "yes", count: 2, want: false},
		{name: "short answer", ans: "I led the migration", count: 1, want: true},
		{name: "nineteen words", ans: words(19), count: 0, want: true},
		{name: "twenty words", ans: words(20), count: 0, want: false},
		{name: "forty words", ans: words(40), count: 0, want: false},
		{name: "empty answer", ans: "", count: 0, want: true},
		{name: "whitespace only", ans: " \n\t ", count: 1, want: true},
		{name: "over the cap", ans: "um", count: 3, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NeedsFollowUp(tc.ans, tc.count))
		})
	}
}

func TestNeedsFollowUpShortAnswersRegardlessOfContent(t *testing.T) {
	answers := []string{
		"I built a distributed cache for the payments team",
		"I DON'T KNOW",
		"Honestly I would rather not say",
	}
	for _, ans := range answers {
		for count := 0; count < MaxFollowUps; count++ {
			require.True(t, NeedsFollowUp(ans, count), "answer %q count %d", ans, count)
		}
	}
}

func TestNeedsFollowUpSubstantiveAnswer(t *testing.T) {
	ans := "In my last role I owned the checkout service. When latency spiked during a sale " +
		"I profiled the hot path, found an N+1 query against the inventory table, batched the " +
		"lookups and added a read-through cache, which cut p99 latency by sixty percent within a week."
	require.GreaterOrEqual(t, len(strings.Fields(ans)), 40)
	require.False(t, NeedsFollowUp(ans, 0))
}
