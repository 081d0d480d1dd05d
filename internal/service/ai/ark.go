package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// ArkClient drives an eino chat model, by default the Volcengine ark model.
type ArkClient struct {
	chatModel  model.ChatModel
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewArkClient compiles the classification chain around classifierModel,
// which should be configured for JSON object output. A nil classifierModel
// reuses chatModel and relies on parseVerdict alone.
func NewArkClient(ctx context.Context, chatModel, classifierModel model.ChatModel) (*ArkClient, error) {
	if classifierModel == nil {
		classifierModel = chatModel
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(sentimentSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(classifierModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment chain: %w", err)
	}

	return &ArkClient{chatModel: chatModel, classifier: runnable}, nil
}

func (c *ArkClient) StreamComplete(ctx context.Context, history []chat.Message, systemPrompt string) (<-chan Fragment, error) {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, buildSchemaHistory(history)...)

	stream, err := c.chatModel.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to open ark stream: %w", err)
	}

	recv := func() (string, error) {
		msg, err := stream.Recv()
		if err != nil {
			return "", err
		}
		if msg == nil {
			return "", nil
		}
		return msg.Content, nil
	}
	return pump(ctx, recv, stream.Close), nil
}

func (c *ArkClient) ClassifySentiment(ctx context.Context, text string) (chat.Mood, bool) {
	msg, err := c.classifier.Invoke(ctx, map[string]any{"text": strings.TrimSpace(text)})
	if err != nil {
		log.Printf("[ai] sentiment classification failed: %v", err)
		return "", false
	}
	if msg == nil {
		return "", false
	}

	mood, err := parseVerdict(msg.Content)
	if err != nil {
		log.Printf("[ai] sentiment verdict rejected: %v", err)
		return "", false
	}
	return mood, true
}

func buildSchemaHistory(messages []chat.Message) []*schema.Message {
	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
