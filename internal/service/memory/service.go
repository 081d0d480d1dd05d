package memory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
)

const (
	DefaultTopK     = 3
	maxSnippetRunes = 1000
)

// ErrOwnerRequired rejects any operation that is not scoped to an owner.
var ErrOwnerRequired = errors.New("memory: owner id is required")

// QueryOptions narrow a similarity search. They are applied by the backend
// inside the query itself.
type QueryOptions struct {
	Exclude  []string
	MinScore float64
}

type QueryOption func(*QueryOptions)

// ExcludeVector drops the given vector ids from the result.
func ExcludeVector(ids ...string) QueryOption {
	return func(o *QueryOptions) {
		for _, id := range ids {
			if id != "" {
				o.Exclude = append(o.Exclude, id)
			}
		}
	}
}

// WithMinScore overrides the configured similarity floor.
func WithMinScore(score float64) QueryOption {
	return func(o *QueryOptions) {
		o.MinScore = score
	}
}

// Backend is a vector store. Every method receives the owner id and must
// filter on it inside the store.
type Backend interface {
	Upsert(ctx context.Context, record memory.Record) error
	Search(ctx context.Context, ownerID string, vector []float32, topK int, opts QueryOptions) ([]memory.Match, error)
	DeleteOwner(ctx context.Context, ownerID string) (int64, error)
	Stats(ctx context.Context, ownerID string) (memory.Stats, error)
}

// Service is the memory store used by the turn pipeline.
type Service struct {
	backend  Backend
	topK     int
	minScore float64
}

func NewService(backend Backend, topK int, minScore float64) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{backend: backend, topK: topK, minScore: minScore}
}

// Upsert stores one memory record for ownerID.
func (s *Service) Upsert(ctx context.Context, vectorID, ownerID, conversationID, text string, vector []float32, role string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	if vectorID == "" {
		return errors.New("memory: vector id is required")
	}
	if len(vector) == 0 {
		return errors.New("memory: empty vector")
	}

	record := memory.Record{
		VectorID:       vectorID,
		OwnerID:        ownerID,
		ConversationID: conversationID,
		Content:        snippet(text),
		Role:           role,
		Vector:         vector,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.backend.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert memory: %w", err)
	}
	return nil
}

// Query returns up to topK memories of ownerID ordered by descending
// similarity. Any failure yields an empty result.
func (s *Service) Query(ctx context.Context, ownerID string, vector []float32, topK int, opts ...QueryOption) []memory.Match {
	if ownerID == "" || len(vector) == 0 {
		return []memory.Match{}
	}
	if topK <= 0 {
		topK = s.topK
	}

	options := QueryOptions{MinScore: s.minScore}
	for _, opt := range opts {
		opt(&options)
	}

	matches, err := s.backend.Search(ctx, ownerID, vector, topK, options)
	if err != nil {
		log.Printf("[memory] query failed for owner=%s, continuing without memories: %v", ownerID, err)
		return []memory.Match{}
	}
	if matches == nil {
		return []memory.Match{}
	}
	return matches
}

// DeleteAll removes every memory of ownerID and reports how many were deleted.
func (s *Service) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerRequired
	}
	n, err := s.backend.DeleteOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete memories: %w", err)
	}
	log.Printf("[memory] deleted %d memories for owner=%s", n, ownerID)
	return n, nil
}

func (s *Service) Stats(ctx context.Context, ownerID string) (memory.Stats, error) {
	if ownerID == "" {
		return memory.Stats{}, ErrOwnerRequired
	}
	stats, err := s.backend.Stats(ctx, ownerID)
	if err != nil {
		return memory.Stats{}, fmt.Errorf("memory stats: %w", err)
	}
	return stats, nil
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxSnippetRunes {
		return text
	}
	return string(runes[:maxSnippetRunes])
}
