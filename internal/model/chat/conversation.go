package chat

import "time"

// DefaultTitle marks a conversation that has not been titled yet.
const DefaultTitle = "New Chat"

// Conversation groups messages owned by a single user.
type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"ownerId" bson:"owner_id"`
	PersonaID string    `json:"personaId" bson:"persona_id"`
	Title     string    `json:"title" bson:"title"`
	Titled    bool      `json:"titled" bson:"titled"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Untitled reports whether the title was never set from a first exchange.
// It does not look at the title text, so a title equal to DefaultTitle
// still counts once it has been written.
func (c Conversation) Untitled() bool {
	return !c.Titled
}
