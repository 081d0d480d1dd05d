package embedding

import (
	"context"
	"errors"
	"strings"
)

// DefaultDimensions matches all-MiniLM-L6-v2, the model the remote server is expected to host.
const DefaultDimensions = 384

// ErrDimension is returned when a model answers with a vector of the wrong length.
var ErrDimension = errors.New("embedding: unexpected vector dimension")

// Embedder turns text into a fixed-length vector. Identical input yields an identical vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Normalize trims the text and collapses runs of whitespace so that
// cosmetic differences do not change the vector.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
