package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalEmbedder is an in-process feature-hashing model. Word unigrams, word
// bigrams and character trigrams are hashed into signed buckets and the
// result is L2-normalised, so cosine similarity tracks lexical overlap.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder builds a hashing embedder producing vectors of dims entries.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &LocalEmbedder{dims: dims}
}

func (e *LocalEmbedder) Dimensions() int {
	return e.dims
}

func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := splitWords(Normalize(text))
	if len(words) == 0 {
		return nil, errors.New("embedding: no content to embed")
	}

	acc := make([]float64, e.dims)
	for i, w := range words {
		e.add(acc, "w:"+w, 1.0)
		if i > 0 {
			e.add(acc, "b:"+words[i-1]+" "+w, 0.5)
		}
		padded := "^" + w + "$"
		runes := []rune(padded)
		for j := 0; j+3 <= len(runes); j++ {
			e.add(acc, "c:"+string(runes[j:j+3]), 0.25)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, e.dims)
	if norm == 0 {
		return vec, nil
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

func (e *LocalEmbedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dims))
	// The top bit picks the sign so collisions tend to cancel out.
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
