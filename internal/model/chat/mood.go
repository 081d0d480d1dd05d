package chat

// Mood buckets a sentiment comparative score.
type Mood string

const (
	MoodVeryPositive Mood = "very_positive"
	MoodPositive     Mood = "positive"
	MoodNeutral      Mood = "neutral"
	MoodNegative     Mood = "negative"
	MoodVeryNegative Mood = "very_negative"
)

// Moods lists every mood from most positive to most negative.
var Moods = []Mood{MoodVeryPositive, MoodPositive, MoodNeutral, MoodNegative, MoodVeryNegative}

var moodScores = map[Mood]float64{
	MoodVeryPositive: 1.0,
	MoodPositive:     0.5,
	MoodNeutral:      0,
	MoodNegative:     -0.5,
	MoodVeryNegative: -1.0,
}

// ParseMood maps a raw label onto a known mood.
func ParseMood(raw string) (Mood, bool) {
	m := Mood(raw)
	_, ok := moodScores[m]
	return m, ok
}

// Score returns the fixed five-point value of the mood.
func (m Mood) Score() float64 {
	return moodScores[m]
}

// Valid reports whether m is one of the five moods.
func (m Mood) Valid() bool {
	_, ok := moodScores[m]
	return ok
}

// Sentiment is the lexicon score attached to user messages at creation.
type Sentiment struct {
	Score       float64 `json:"score" bson:"score"`
	Comparative float64 `json:"comparative" bson:"comparative"`
	Mood        Mood    `json:"mood" bson:"mood"`
	Confidence  float64 `json:"confidence" bson:"confidence"`
}
