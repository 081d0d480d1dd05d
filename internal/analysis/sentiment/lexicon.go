package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// Mood thresholds on the comparative score. Test fixtures depend on these
// exact values.
const (
	VeryPositiveThreshold = 0.8
	PositiveThreshold     = 0.15
	VeryNegativeThreshold = -0.6
	NegativeThreshold     = -0.10
)

// Result is the outcome of scoring one text.
type Result struct {
	Score       float64
	Comparative float64
	Mood        chat.Mood
	Confidence  float64
}

// Sentiment converts the result into the persisted message form.
func (r Result) Sentiment() *chat.Sentiment {
	return &chat.Sentiment{
		Score:       r.Score,
		Comparative: r.Comparative,
		Mood:        r.Mood,
		Confidence:  r.Confidence,
	}
}

// Score rates the emotional polarity of text. It never fails: empty input
// yields a neutral result with zero confidence.
func Score(text string) Result {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Result{Mood: chat.MoodNeutral}
	}

	var score float64
	for _, tok := range tokens {
		score += float64(baseLexicon[tok])
	}

	// Only the first matching negation phrase applies.
	joined := " " + strings.Join(tokens, " ") + " "
	for _, neg := range negationPhrases {
		if strings.Contains(joined, " "+neg.phrase+" ") {
			score += neg.penalty
			break
		}
	}

	for _, tok := range tokens {
		score += customBoosts[tok]
	}

	comparative := score / float64(len(tokens))
	return Result{
		Score:       score,
		Comparative: comparative,
		Mood:        Bucket(comparative),
		Confidence:  math.Min(math.Abs(comparative)*100, 100),
	}
}

// Bucket maps a comparative score onto one of the five moods.
func Bucket(comparative float64) chat.Mood {
	switch {
	case comparative >= VeryPositiveThreshold:
		return chat.MoodVeryPositive
	case comparative >= PositiveThreshold:
		return chat.MoodPositive
	case comparative <= VeryNegativeThreshold:
		return chat.MoodVeryNegative
	case comparative <= NegativeThreshold:
		return chat.MoodNegative
	default:
		return chat.MoodNeutral
	}
}

// Deviation is the absolute distance between two moods on the five-point map.
func Deviation(a, b chat.Mood) float64 {
	return math.Abs(a.Score() - b.Score())
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '\'', r == '-':
			return r
		case r == '’':
			return '\''
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, lowered)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
