package chat

import (
	"context"
	"errors"
	"time"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

var (
	ErrOwnerRequired        = errors.New("owner id is required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// Store persists conversations and messages. Implementations must be safe
// for concurrent use and serialize their own writes.
type Store interface {
	CreateConversation(ctx context.Context, ownerID, personaID string) (chat.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error)
	// CreateMessage assigns ID and CreatedAt when they are empty.
	CreateMessage(ctx context.Context, message *chat.Message) error
	UpdateMessage(ctx context.Context, messageID string, update chat.MessageUpdate) error
	GetMessage(ctx context.Context, messageID string) (chat.Message, error)
	// RecentHistory returns at most limit messages, oldest first.
	RecentHistory(ctx context.Context, conversationID string, limit int) ([]chat.Message, error)
	// UpdateConversationTitleAndTimestamp sets the title when title is non-nil
	// and always bumps UpdatedAt.
	UpdateConversationTitleAndTimestamp(ctx context.Context, conversationID string, title *string, at time.Time) error
}
