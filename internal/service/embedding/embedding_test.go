package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestLocalEmbedderDeterministic(t *testing.T) {
	e := NewLocalEmbedder(0)
	if e.Dimensions() != DefaultDimensions {
		t.Fatalf("expected %d dims, got %d", DefaultDimensions, e.Dimensions())
	}

	a, err := e.Embed(context.Background(), "My favorite food is pizza")
	if err != nil {
		t.Fatalf("Embed err: %v", err)
	}
	b, err := e.Embed(context.Background(), "  my favorite   food is PIZZA ")
	if err != nil {
		t.Fatalf("Embed err: %v", err)
	}
	if len(a) != DefaultDimensions {
		t.Fatalf("unexpected vector length %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLocalEmbedderRanksOverlapHigher(t *testing.T) {
	e := NewLocalEmbedder(DefaultDimensions)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "what is the secret code?")
	related, _ := e.Embed(ctx, "my secret code is 1234")
	unrelated, _ := e.Embed(ctx, "my favorite food is pizza")

	if cosine(query, related) <= cosine(query, unrelated) {
		t.Fatalf("expected overlapping text to score higher: related=%f unrelated=%f",
			cosine(query, related), cosine(query, unrelated))
	}
}

func TestLocalEmbedderRejectsEmpty(t *testing.T) {
	if _, err := NewLocalEmbedder(8).Embed(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank input")
	}
}

func TestRemoteEmbedder(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"mini"}`))
	}))
	defer server.Close()

	e := NewRemoteEmbedder("key", server.URL+"/v1", "mini", 3)
	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed err: %v", err)
	}
	if len(vec) != 3 || gotModel != "mini" {
		t.Fatalf("unexpected result vec=%v model=%s", vec, gotModel)
	}

	e = NewRemoteEmbedder("key", server.URL+"/v1", "mini", 4)
	if _, err := e.Embed(context.Background(), "hello"); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
}

type fakeCache struct {
	data   map[string]string
	getErr error
	sets   int
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.sets++
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

type countingEmbedder struct {
	calls int
	inner Embedder
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int { return c.inner.Dimensions() }

func TestCachedEmbedderServesRepeatsFromCache(t *testing.T) {
	inner := &countingEmbedder{inner: NewLocalEmbedder(16)}
	store := &fakeCache{data: map[string]string{}}
	cached := NewCachedEmbedder(inner, store, "local", time.Hour)

	first, err := cached.Embed(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Embed err: %v", err)
	}
	second, err := cached.Embed(context.Background(), "hello   there")
	if err != nil {
		t.Fatalf("Embed err: %v", err)
	}

	if inner.calls != 1 || store.sets != 1 {
		t.Fatalf("expected one model call and one write, got calls=%d sets=%d", inner.calls, store.sets)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cached vector differs at %d", i)
		}
	}
}

func TestCachedEmbedderFallsThroughOnCacheError(t *testing.T) {
	inner := &countingEmbedder{inner: NewLocalEmbedder(16)}
	store := &fakeCache{data: map[string]string{}, getErr: errors.New("connection refused")}
	cached := NewCachedEmbedder(inner, store, "local", time.Hour)

	if _, err := cached.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("expected fall-through, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected model call, got %d", inner.calls)
	}
}
