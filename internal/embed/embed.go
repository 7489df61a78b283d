// Package embed provides the shared embedding abstraction: one loaded
// backend, constructed at process start and read-only thereafter.
package embed

import (
	"context"
	"math"
	"sync"
)

// Embedder turns text into a fixed-dimension vector. Implementations
// must be deterministic: identical text yields numerically identical
// vectors for the lifetime of the process.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cosine returns the cosine similarity of two vectors, 0 when either
// has zero norm or the dimensions disagree.
func Cosine(a, b []float32) float64 {
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

// locked serializes Embed calls for backends that are not reentrant.
type locked struct {
	mu    sync.Mutex
	inner Embedder
}

// Locked wraps an embedder so concurrent callers take turns.
func Locked(e Embedder) Embedder {
	return &locked{inner: e}
}

func (l *locked) Embed(ctx context.Context, text string) ([]float32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Embed(ctx, text)
}
