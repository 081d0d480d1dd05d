package sentiment

import (
	"math"
	"testing"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

func TestScoreVeryPositive(t *testing.T) {
	got := Score("I'm so happy and excited!")
	if got.Mood != chat.MoodVeryPositive {
		t.Fatalf("expected very_positive, got %s (comparative %.3f)", got.Mood, got.Comparative)
	}
	if got.Score != 6 {
		t.Fatalf("expected score 6, got %.2f", got.Score)
	}
	if got.Confidence != 100 {
		t.Fatalf("expected confidence capped at 100, got %.2f", got.Confidence)
	}
}

func TestScoreEmptyIsNeutral(t *testing.T) {
	for _, input := range []string{"", "   ", "!!! ...", "\n\t"} {
		got := Score(input)
		if got.Mood != chat.MoodNeutral {
			t.Fatalf("Score(%q) mood = %s, want neutral", input, got.Mood)
		}
		if got.Confidence != 0 || got.Score != 0 || got.Comparative != 0 {
			t.Fatalf("Score(%q) = %+v, want zero result", input, got)
		}
	}
}

func TestScoreNegationTableFires(t *testing.T) {
	got := Score("This is not what I wanted.")
	if got.Mood != chat.MoodNegative {
		t.Fatalf("expected negative, got %s (comparative %.3f)", got.Mood, got.Comparative)
	}
	if got.Score != -3 {
		t.Fatalf("expected negation penalty -3, got %.2f", got.Score)
	}
	if math.Abs(got.Confidence-50) > 1e-9 {
		t.Fatalf("expected confidence 50, got %.4f", got.Confidence)
	}
}

func TestScoreNegationFirstMatchOnly(t *testing.T) {
	// "not happy" (-4) appears first in the table; "not good" must not stack.
	got := Score("not happy not good")
	want := 3.0 + 3.0 - 4.0
	if got.Score != want {
		t.Fatalf("expected score %.1f, got %.1f", want, got.Score)
	}
}

func TestScoreCustomBoostIsAdditive(t *testing.T) {
	got := Score("overwhelmed")
	if got.Score != -2 {
		t.Fatalf("expected boost-only score -2, got %.2f", got.Score)
	}
	if got.Mood != chat.MoodVeryNegative {
		t.Fatalf("expected very_negative, got %s", got.Mood)
	}

	lonely := Score("lonely")
	if lonely.Score != -3 {
		t.Fatalf("expected base -2 plus boost -1, got %.2f", lonely.Score)
	}
}

func TestScoreCurlyApostrophe(t *testing.T) {
	got := Score("I don’t like this")
	if got.Score != -2 {
		t.Fatalf("expected like(+2) plus negation(-4), got %.2f", got.Score)
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		comparative float64
		want        chat.Mood
	}{
		{0.8, chat.MoodVeryPositive},
		{0.79, chat.MoodPositive},
		{0.15, chat.MoodPositive},
		{0.149, chat.MoodNeutral},
		{0, chat.MoodNeutral},
		{-0.099, chat.MoodNeutral},
		{-0.10, chat.MoodNegative},
		{-0.59, chat.MoodNegative},
		{-0.6, chat.MoodVeryNegative},
		{-3, chat.MoodVeryNegative},
	}
	for _, tc := range cases {
		if got := Bucket(tc.comparative); got != tc.want {
			t.Fatalf("Bucket(%v) = %s, want %s", tc.comparative, got, tc.want)
		}
	}
}

func TestDeviation(t *testing.T) {
	if d := Deviation(chat.MoodVeryNegative, chat.MoodVeryPositive); d != 2 {
		t.Fatalf("expected deviation 2, got %v", d)
	}
	if d := Deviation(chat.MoodPositive, chat.MoodPositive); d != 0 {
		t.Fatalf("expected deviation 0, got %v", d)
	}
	if d := Deviation(chat.MoodNeutral, chat.MoodNegative); d != 0.5 {
		t.Fatalf("expected deviation 0.5, got %v", d)
	}
}
