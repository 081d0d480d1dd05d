package memory

import "time"

// Record is one stored memory, owned by exactly one user.
type Record struct {
	VectorID       string
	OwnerID        string
	ConversationID string
	Content        string
	Role           string
	Vector         []float32
	CreatedAt      time.Time
}

// Match is a retrieved memory ranked by similarity to a query vector.
type Match struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// Stats summarises the memories held for one owner.
type Stats struct {
	TotalMemories   int64      `json:"totalMemories"`
	OldestTimestamp *time.Time `json:"oldestTimestamp,omitempty"`
	NewestTimestamp *time.Time `json:"newestTimestamp,omitempty"`
}
