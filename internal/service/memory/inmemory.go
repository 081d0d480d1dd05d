package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
)

// InMemoryBackend keeps records partitioned by owner. A search only ever
// scans the caller's partition.
type InMemoryBackend struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]memory.Record
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{byOwner: make(map[string]map[string]memory.Record)}
}

func (b *InMemoryBackend) Upsert(_ context.Context, record memory.Record) error {
	if record.OwnerID == "" {
		return ErrOwnerRequired
	}

	vec := make([]float32, len(record.Vector))
	copy(vec, record.Vector)
	record.Vector = vec

	b.mu.Lock()
	defer b.mu.Unlock()

	// A vector id belongs to exactly one owner.
	for owner, records := range b.byOwner {
		if owner != record.OwnerID {
			delete(records, record.VectorID)
		}
	}

	records, ok := b.byOwner[record.OwnerID]
	if !ok {
		records = make(map[string]memory.Record)
		b.byOwner[record.OwnerID] = records
	}
	records[record.VectorID] = record
	return nil
}

func (b *InMemoryBackend) Search(_ context.Context, ownerID string, vector []float32, topK int, opts QueryOptions) ([]memory.Match, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, id := range opts.Exclude {
		excluded[id] = struct{}{}
	}

	b.mu.RLock()
	matches := make([]memory.Match, 0, len(b.byOwner[ownerID]))
	for id, record := range b.byOwner[ownerID] {
		if _, skip := excluded[id]; skip {
			continue
		}
		score := cosineSimilarity(vector, record.Vector)
		if score < opts.MinScore {
			continue
		}
		matches = append(matches, memory.Match{
			Content:   record.Content,
			Role:      record.Role,
			Timestamp: record.CreatedAt,
			Score:     score,
		})
	}
	b.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Timestamp.After(matches[j].Timestamp)
		}
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (b *InMemoryBackend) DeleteOwner(_ context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	n := int64(len(b.byOwner[ownerID]))
	delete(b.byOwner, ownerID)
	return n, nil
}

func (b *InMemoryBackend) Stats(_ context.Context, ownerID string) (memory.Stats, error) {
	if ownerID == "" {
		return memory.Stats{}, ErrOwnerRequired
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var stats memory.Stats
	for _, record := range b.byOwner[ownerID] {
		stats.TotalMemories++
		ts := record.CreatedAt
		if stats.OldestTimestamp == nil || ts.Before(*stats.OldestTimestamp) {
			oldest := ts
			stats.OldestTimestamp = &oldest
		}
		if stats.NewestTimestamp == nil || ts.After(*stats.NewestTimestamp) {
			newest := ts
			stats.NewestTimestamp = &newest
		}
	}
	return stats, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
