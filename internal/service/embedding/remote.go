package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// RemoteEmbedder calls an OpenAI-compatible /embeddings endpoint.
type RemoteEmbedder struct {
	client *openai.Client
	model  string
	dims   int
}

// NewRemoteEmbedder configures a client for baseURL; an empty baseURL targets api.openai.com.
func NewRemoteEmbedder(apiKey, baseURL, model string, dims int) *RemoteEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &RemoteEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dims:   dims,
	}
}

func (e *RemoteEmbedder) Dimensions() int {
	return e.dims
}

func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	input := Normalize(text)
	if input == "" {
		return nil, fmt.Errorf("embedding: no content to embed")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{input},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embeddings: empty response")
	}

	vec := resp.Data[0].Embedding
	if len(vec) != e.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(vec), e.dims)
	}
	return vec, nil
}
