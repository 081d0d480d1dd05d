package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message persists one turn of a conversation.
type Message struct {
	ID             string     `json:"id" bson:"_id"`
	ConversationID string     `json:"conversationId" bson:"conversation_id"`
	Role           Role       `json:"role" bson:"role"`
	Content        string     `json:"content" bson:"content"`
	Attachments    []string   `json:"attachments,omitempty" bson:"attachments,omitempty"`
	VectorRef      *string    `json:"vectorRef,omitempty" bson:"vector_ref,omitempty"`
	Sentiment      *Sentiment `json:"sentiment,omitempty" bson:"sentiment,omitempty"`

	// Filled by the background reconciliation after the stream has closed.
	SentimentLLM       *Mood    `json:"sentimentLLM,omitempty" bson:"sentiment_llm,omitempty"`
	SentimentDeviation *float64 `json:"sentimentDeviation,omitempty" bson:"sentiment_deviation,omitempty"`

	RetrievedContext []string  `json:"retrievedContext,omitempty" bson:"retrieved_context,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"created_at"`
}

// MessageUpdate lists the mutable message fields. Nil fields are left untouched.
type MessageUpdate struct {
	VectorRef          *string
	SentimentLLM       *Mood
	SentimentDeviation *float64
}

// Empty reports whether the update carries no field.
func (u MessageUpdate) Empty() bool {
	return u.VectorRef == nil && u.SentimentLLM == nil && u.SentimentDeviation == nil
}
