package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/config"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

const fragmentBuffer = 16

// Fragment is one piece of a streamed completion. A fragment carrying Err
// is always the last one on its channel.
type Fragment struct {
	Text string
	Err  error
}

// Client talks to a chat-completion provider.
type Client interface {
	// StreamComplete starts a completion over history. The channel is closed
	// when the provider finishes, fails, or ctx is cancelled; cancelling ctx
	// also closes the underlying connection.
	StreamComplete(ctx context.Context, history []chat.Message, systemPrompt string) (<-chan Fragment, error)

	// ClassifySentiment asks the model for a single mood label. ok is false
	// on any transport or parse failure.
	ClassifySentiment(ctx context.Context, text string) (chat.Mood, bool)
}

// NewClient builds the client for the configured provider.
func NewClient(ctx context.Context, cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderArk, "":
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		classifierModel, err := cfg.NewClassifierModel(ctx)
		if err != nil {
			log.Printf("[ai] json classifier model unavailable, sharing chat model: %v", err)
			classifierModel = nil
		}
		return NewArkClient(ctx, chatModel, classifierModel)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// pump moves fragments from recv onto a bounded channel until recv reports
// io.EOF or an error. release is called exactly once, either when pumping
// stops or as soon as ctx is cancelled, so a blocked recv is unblocked.
func pump(ctx context.Context, recv func() (string, error), release func()) <-chan Fragment {
	out := make(chan Fragment, fragmentBuffer)

	var once sync.Once
	closeStream := func() { once.Do(release) }
	stop := context.AfterFunc(ctx, closeStream)

	go func() {
		defer close(out)
		defer closeStream()
		defer stop()

		for {
			text, err := recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- Fragment{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if text == "" {
				continue
			}
			select {
			case out <- Fragment{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
