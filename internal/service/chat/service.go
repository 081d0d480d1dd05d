package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// Service is the in-process Store used for development and tests.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	messageIndex  map[string]string // message id -> conversation id
}

// NewService bootstraps an empty in-memory store.
func NewService() *Service {
	return &Service{
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		messageIndex:  make(map[string]string),
	}
}

// CreateConversation provisions an untitled conversation for ownerID.
func (s *Service) CreateConversation(_ context.Context, ownerID, personaID string) (chat.Conversation, error) {
	if ownerID == "" {
		return chat.Conversation{}, ErrOwnerRequired
	}

	now := time.Now().UTC()
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		PersonaID: personaID,
		Title:     chat.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations[conversation.ID] = conversation
	s.messages[conversation.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return conversation, nil
}

// GetConversation retrieves a conversation by identifier.
func (s *Service) GetConversation(_ context.Context, conversationID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return conversation, nil
}

// CreateMessage appends a message to its conversation.
func (s *Service) CreateMessage(_ context.Context, message *chat.Message) error {
	if message.ConversationID == "" {
		return ErrConversationNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[message.ConversationID]; !ok {
		return ErrConversationNotFound
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.messages[message.ConversationID] = append(s.messages[message.ConversationID], cloneMessage(*message))
	s.messageIndex[message.ID] = message.ConversationID
	return nil
}

// UpdateMessage applies the non-nil fields of update.
func (s *Service) UpdateMessage(_ context.Context, messageID string, update chat.MessageUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversationID, ok := s.messageIndex[messageID]
	if !ok {
		return ErrMessageNotFound
	}

	items := s.messages[conversationID]
	for i := range items {
		if items[i].ID != messageID {
			continue
		}
		if update.VectorRef != nil {
			ref := *update.VectorRef
			items[i].VectorRef = &ref
		}
		if update.SentimentLLM != nil {
			mood := *update.SentimentLLM
			items[i].SentimentLLM = &mood
		}
		if update.SentimentDeviation != nil {
			deviation := *update.SentimentDeviation
			items[i].SentimentDeviation = &deviation
		}
		return nil
	}
	return ErrMessageNotFound
}

// GetMessage returns a copy of a stored message.
func (s *Service) GetMessage(_ context.Context, messageID string) (chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversationID, ok := s.messageIndex[messageID]
	if !ok {
		return chat.Message{}, ErrMessageNotFound
	}
	for _, msg := range s.messages[conversationID] {
		if msg.ID == messageID {
			return cloneMessage(msg), nil
		}
	}
	return chat.Message{}, ErrMessageNotFound
}

// RecentHistory returns the last limit messages of a conversation.
func (s *Service) RecentHistory(_ context.Context, conversationID string, limit int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}

	start := 0
	if limit > 0 && len(messages) > limit {
		start = len(messages) - limit
	}

	copied := make([]chat.Message, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		copied = append(copied, cloneMessage(msg))
	}
	return copied, nil
}

// UpdateConversationTitleAndTimestamp sets the title (when given) and bumps UpdatedAt.
func (s *Service) UpdateConversationTitleAndTimestamp(_ context.Context, conversationID string, title *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[conversationID]
	if !ok {
		return ErrConversationNotFound
	}
	if title != nil {
		conversation.Title = *title
		conversation.Titled = true
	}
	conversation.UpdatedAt = at.UTC()
	s.conversations[conversationID] = conversation
	return nil
}

func cloneMessage(msg chat.Message) chat.Message {
	out := msg
	if msg.Attachments != nil {
		out.Attachments = append([]string(nil), msg.Attachments...)
	}
	if msg.RetrievedContext != nil {
		out.RetrievedContext = append([]string(nil), msg.RetrievedContext...)
	}
	if msg.VectorRef != nil {
		ref := *msg.VectorRef
		out.VectorRef = &ref
	}
	if msg.Sentiment != nil {
		sentiment := *msg.Sentiment
		out.Sentiment = &sentiment
	}
	if msg.SentimentLLM != nil {
		mood := *msg.SentimentLLM
		out.SentimentLLM = &mood
	}
	if msg.SentimentDeviation != nil {
		deviation := *msg.SentimentDeviation
		out.SentimentDeviation = &deviation
	}
	return out
}
