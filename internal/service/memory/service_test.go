package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
)

func TestQueryNeverReturnsOtherOwners(t *testing.T) {
	svc := NewService(NewInMemoryBackend(), 3, 0)
	ctx := context.Background()

	secret := []float32{1, 0, 0}
	if err := svc.Upsert(ctx, "vec-b", "owner-b", "conv-b", "my secret code is 1234", secret, "user"); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}
	if err := svc.Upsert(ctx, "vec-a", "owner-a", "conv-a", "my favorite food is pizza", []float32{0, 1, 0}, "user"); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}

	// The query is identical to owner B's vector.
	matches := svc.Query(ctx, "owner-a", secret, 3, WithMinScore(-1))
	for _, m := range matches {
		if m.Content == "my secret code is 1234" {
			t.Fatalf("owner-a received owner-b memory: %+v", matches)
		}
	}
	if len(matches) != 1 || matches[0].Content != "my favorite food is pizza" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestQueryOrdersByScoreAndHonoursTopK(t *testing.T) {
	svc := NewService(NewInMemoryBackend(), 2, 0)
	ctx := context.Background()

	_ = svc.Upsert(ctx, "v1", "owner", "c", "far", []float32{0, 1}, "user")
	_ = svc.Upsert(ctx, "v2", "owner", "c", "close", []float32{1, 0.1}, "user")
	_ = svc.Upsert(ctx, "v3", "owner", "c", "middle", []float32{1, 1}, "assistant")

	matches := svc.Query(ctx, "owner", []float32{1, 0}, 0)
	if len(matches) != 2 {
		t.Fatalf("expected default topK of 2, got %d", len(matches))
	}
	if matches[0].Content != "close" || matches[1].Content != "middle" {
		t.Fatalf("unexpected order: %+v", matches)
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("scores not descending: %+v", matches)
	}
}

func TestQueryExcludeAndMinScore(t *testing.T) {
	svc := NewService(NewInMemoryBackend(), 3, 0.5)
	ctx := context.Background()

	_ = svc.Upsert(ctx, "current", "owner", "c", "just said", []float32{1, 0}, "user")
	_ = svc.Upsert(ctx, "older", "owner", "c", "said before", []float32{0.9, 0.1}, "user")
	_ = svc.Upsert(ctx, "weak", "owner", "c", "unrelated", []float32{0, 1}, "user")

	matches := svc.Query(ctx, "owner", []float32{1, 0}, 3, ExcludeVector("current"))
	if len(matches) != 1 || matches[0].Content != "said before" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

type failingBackend struct{ InMemoryBackend }

func (*failingBackend) Search(context.Context, string, []float32, int, QueryOptions) ([]memory.Match, error) {
	return nil, errors.New("connection reset")
}

func TestQueryDegradesToEmpty(t *testing.T) {
	svc := NewService(&failingBackend{}, 3, 0)

	matches := svc.Query(context.Background(), "owner", []float32{1}, 3)
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", matches)
	}
	if got := svc.Query(context.Background(), "", []float32{1}, 3); len(got) != 0 {
		t.Fatalf("expected empty result without owner, got %+v", got)
	}
}

func TestUpsertRequiresOwner(t *testing.T) {
	svc := NewService(NewInMemoryBackend(), 3, 0)
	err := svc.Upsert(context.Background(), "v", "", "c", "text", []float32{1}, "user")
	if !errors.Is(err, ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
}

func TestDeleteAllAndStats(t *testing.T) {
	svc := NewService(NewInMemoryBackend(), 3, 0)
	ctx := context.Background()

	_ = svc.Upsert(ctx, "v1", "owner", "c", "one", []float32{1}, "user")
	_ = svc.Upsert(ctx, "v2", "owner", "c", "two", []float32{1}, "user")
	_ = svc.Upsert(ctx, "v3", "other", "c", "three", []float32{1}, "user")

	stats, err := svc.Stats(ctx, "owner")
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if stats.TotalMemories != 2 || stats.OldestTimestamp == nil || stats.NewestTimestamp == nil {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.OldestTimestamp.After(*stats.NewestTimestamp) {
		t.Fatalf("oldest after newest: %+v", stats)
	}

	n, err := svc.DeleteAll(ctx, "owner")
	if err != nil || n != 2 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}

	stats, _ = svc.Stats(ctx, "owner")
	if stats.TotalMemories != 0 || stats.OldestTimestamp != nil {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	other, _ := svc.Stats(ctx, "other")
	if other.TotalMemories != 1 {
		t.Fatalf("other owner affected: %+v", other)
	}
}

func TestUpsertTruncatesSnippet(t *testing.T) {
	backend := NewInMemoryBackend()
	svc := NewService(backend, 3, 0)

	long := make([]rune, maxSnippetRunes+10)
	for i := range long {
		long[i] = 'a'
	}
	_ = svc.Upsert(context.Background(), "v", "owner", "c", string(long), []float32{1}, "user")

	matches := svc.Query(context.Background(), "owner", []float32{1}, 1)
	if len(matches) != 1 || len([]rune(matches[0].Content)) != maxSnippetRunes {
		t.Fatalf("unexpected snippet length: %+v", matches)
	}
}
