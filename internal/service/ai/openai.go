package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// OpenAIClient talks to api.openai.com or any compatible server.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) StreamComplete(ctx context.Context, history []chat.Message, systemPrompt string) (<-chan Fragment, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open openai stream: %w", err)
	}

	recv := func() (string, error) {
		resp, err := stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Delta.Content, nil
	}
	release := func() { _ = stream.Close() }
	return pump(ctx, recv, release), nil
}

func (c *OpenAIClient) ClassifySentiment(ctx context.Context, text string) (chat.Mood, bool) {
	schemaJSON, err := json.Marshal(verdictSchema())
	if err != nil {
		log.Printf("[ai] sentiment schema marshal failed: %v", err)
		return "", false
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        "sentiment_verdict",
				Description: "The single mood label of the message",
				Schema:      json.RawMessage(schemaJSON),
				Strict:      true,
			},
		},
	})
	if err != nil {
		log.Printf("[ai] sentiment classification failed: %v", err)
		return "", false
	}
	if len(resp.Choices) == 0 {
		return "", false
	}

	mood, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[ai] sentiment verdict rejected: %v", err)
		return "", false
	}
	return mood, true
}
