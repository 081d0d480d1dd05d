package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "soulsync:embedding:"

// cacheStore is the subset of *redis.Client the cache needs.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedEmbedder serves repeated text from redis. Cache failures fall
// through to the wrapped model and are only logged.
type CachedEmbedder struct {
	next      Embedder
	store     cacheStore
	namespace string
	ttl       time.Duration
}

// NewCachedEmbedder wraps next. namespace separates vectors produced by different models.
func NewCachedEmbedder(next Embedder, store cacheStore, namespace string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{next: next, store: store, namespace: namespace, ttl: ttl}
}

func (c *CachedEmbedder) Dimensions() int {
	return c.next.Dimensions()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil && len(vec) == c.next.Dimensions() {
			return vec, nil
		}
		log.Printf("[embedding] discarding malformed cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[embedding] cache read failed: %v", err)
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(vec)
	if err == nil {
		if err := c.store.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			log.Printf("[embedding] cache write failed: %v", err)
		}
	}
	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.namespace + "\x00" + Normalize(text)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
