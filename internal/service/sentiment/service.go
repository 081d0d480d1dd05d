package sentiment

import (
	"context"
	"fmt"
	"log"
	"strings"

	analysis "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/analysis/sentiment"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// ReviewThreshold is the deviation above which a message is flagged for review.
const ReviewThreshold = 0.2

// Classifier produces a model-based mood label.
type Classifier interface {
	ClassifySentiment(ctx context.Context, text string) (chat.Mood, bool)
}

// MessageUpdater persists the reconciled fields.
type MessageUpdater interface {
	UpdateMessage(ctx context.Context, messageID string, update chat.MessageUpdate) error
}

// Config controls the reconciliation service.
type Config struct {
	Enabled bool
}

// Outcome is what reconciliation wrote back to the message.
type Outcome struct {
	LLMMood   chat.Mood
	Deviation float64
	Flagged   bool
}

// Service compares the lexicon mood of a user message with a second opinion
// from the completion model and stores both.
type Service struct {
	enabled    bool
	classifier Classifier
	messages   MessageUpdater
}

func NewService(classifier Classifier, messages MessageUpdater, cfg Config) *Service {
	return &Service{
		enabled:    cfg.Enabled && classifier != nil,
		classifier: classifier,
		messages:   messages,
	}
}

// Enabled 返回是否会调用模型进行二次判断。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Reconcile classifies content, computes the deviation from lexiconMood and
// updates the message. ok is false when nothing was written.
func (s *Service) Reconcile(ctx context.Context, messageID, content string, lexiconMood chat.Mood) (Outcome, bool) {
	if !s.Enabled() || strings.TrimSpace(content) == "" {
		return Outcome{}, false
	}

	llmMood, ok := s.classifier.ClassifySentiment(ctx, content)
	if !ok {
		log.Printf("[sentiment] no model verdict for message=%s", messageID)
		return Outcome{}, false
	}

	if !lexiconMood.Valid() {
		lexiconMood = chat.MoodNeutral
	}
	outcome := Outcome{
		LLMMood:   llmMood,
		Deviation: analysis.Deviation(lexiconMood, llmMood),
	}
	outcome.Flagged = needsReview(outcome.Deviation)

	if err := s.messages.UpdateMessage(ctx, messageID, chat.MessageUpdate{
		SentimentLLM:       &outcome.LLMMood,
		SentimentDeviation: &outcome.Deviation,
	}); err != nil {
		log.Printf("[sentiment] failed to store verdict for message=%s: %v", messageID, err)
		return Outcome{}, false
	}

	if outcome.Flagged {
		log.Printf("[sentiment] review message=%s lexicon=%s llm=%s deviation=%s",
			messageID, lexiconMood, llmMood, formatDeviation(outcome.Deviation))
	}
	return outcome, true
}

// needsReview is strict: a deviation of exactly ReviewThreshold is not flagged.
func needsReview(deviation float64) bool {
	return deviation > ReviewThreshold
}

func formatDeviation(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
