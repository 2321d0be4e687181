// Package emotion strips stage directions from generated interviewer text.
package emotion

import (
	"regexp"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
)

type tag struct {
	text    string
	emotion entity.Emotion
}

// vocabulary is the closed set of recognized stage directions
var vocabulary = []tag{
	{"warm smile", entity.EmotionWarmSmile},
	{"smile", entity.EmotionSmile},
	{"smiling", entity.EmotionSmile},
	{"thinking", entity.EmotionThinking},
	{"thoughtful", entity.EmotionThinking},
	{"lean forward", entity.EmotionLeanForward},
	{"leaning forward", entity.EmotionLeanForward},
	{"nod", entity.EmotionNod},
	{"nodding", entity.EmotionNod},
	{"curious", entity.EmotionCurious},
	{"encouraging", entity.EmotionEncouraging},
	{"impressed", entity.EmotionImpressed},
	{"serious", entity.EmotionSerious},
	{"raised eyebrow", entity.EmotionRaisedBrow},
	{"head tilt", entity.EmotionTiltedHead},
	{"tilts head", entity.EmotionTiltedHead},
}

var (
	tagPattern = buildPattern()
	lookup     = buildLookup()
)

// buildPattern matches a tag together with the blanks on either side of it.
// Words inside a tag may be separated by any whitespace.
func buildPattern() *regexp.Regexp {
	alts := make([]string, 0, len(vocabulary))
	for _, t := range vocabulary {
		words := strings.Fields(t.text)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	return regexp.MustCompile(`(?i)[ \t]*\[\s*(` + strings.Join(alts, "|") + `)\s*\][ \t]*`)
}

func buildLookup() map[string]entity.Emotion {
	m := make(map[string]entity.Emotion, len(vocabulary))
	for _, t := range vocabulary {
		m[t.text] = t.emotion
	}
	return m
}

// Result is the cleaned text and its display emotion
type Result struct {
	Clean   string
	Emotion entity.Emotion
}

// Parse removes every recognized stage direction from raw and returns the
// emotion of the first one found in the text. Text without recognized tags
// passes through unchanged with a neutral emotion. Unknown bracketed text is
// left in place.
func Parse(raw string) Result {
	matches := tagPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return Result{Clean: raw, Emotion: entity.EmotionNeutral}
	}

	first := matches[0]
	name := normalize(raw[first[2]:first[3]])
	detected, ok := lookup[name]
	if !ok {
		detected = entity.EmotionNeutral
	}

	return Result{Clean: strings.TrimSpace(strip(raw, matches)), Emotion: detected}
}

// strip cuts the matched tags out of raw. A tag between two words becomes a
// single space; any other spacing in raw is kept as is.
func strip(raw string, matches [][]int) string {
	var b strings.Builder
	b.Grow(len(raw))

	prev := 0
	for _, m := range matches {
		b.WriteString(raw[prev:m[0]])
		prev = m[1]

		out := b.String()
		joinsWords := len(out) > 0 && out[len(out)-1] != '\n' &&
			m[1] < len(raw) && raw[m[1]] != '\n' && raw[m[1]] != '\r'
		if joinsWords {
			b.WriteByte(' ')
		}
	}
	b.WriteString(raw[prev:])

	return b.String()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
