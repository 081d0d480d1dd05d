package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// GeminiClient streams completions from Google's Gemini models.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) StreamComplete(ctx context.Context, history []chat.Message, systemPrompt string) (<-chan Fragment, error) {
	if len(history) == 0 {
		return nil, errors.New("gemini: history must contain at least one message")
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	session := model.StartChat()
	for _, msg := range history[:len(history)-1] {
		role := "user"
		if msg.Role == chat.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	// Gemini reads the last turn from the request rather than from History.
	last := history[len(history)-1]
	iter := session.SendMessageStream(ctx, genai.Text(last.Content))

	recv := func() (string, error) {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		return responseText(resp), nil
	}
	return pump(ctx, recv, func() {}), nil
}

func (c *GeminiClient) ClassifySentiment(ctx context.Context, text string) (chat.Mood, bool) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sentimentSystemPrompt)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mood": {Type: genai.TypeString, Enum: moodLabels()},
		},
		Required: []string{"mood"},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		log.Printf("[ai] sentiment classification failed: %v", err)
		return "", false
	}

	mood, err := parseVerdict(responseText(resp))
	if err != nil {
		log.Printf("[ai] sentiment verdict rejected: %v", err)
		return "", false
	}
	return mood, true
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
