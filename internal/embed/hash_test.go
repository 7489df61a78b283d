package embed

import (
	"context"
	"math"
	"sync"
	"testing"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(0)
	if e.Dim != defaultHashDim {
		t.Fatalf("expected default dim %d, got %d", defaultHashDim, e.Dim)
	}

	a, err := e.Embed(context.Background(), "machine learning pipeline")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "machine learning pipeline")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(64)
	vec, err := e.Embed(context.Background(), "some nonempty input text")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-6 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	e := NewHashEmbedder(32)
	vec, err := e.Embed(context.Background(), "  \t ")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector for empty text, got %v at %d", v, i)
		}
	}
}

func TestHashEmbedder_SimilarTextScoresHigher(t *testing.T) {
	e := NewHashEmbedder(256)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "machine learning pipeline architecture")
	near, _ := e.Embed(ctx, "pipeline architecture for machine learning")
	far, _ := e.Embed(ctx, "appendix glossary of terms")

	if Cosine(query, near) <= Cosine(query, far) {
		t.Errorf("expected overlapping text to score higher: near=%f far=%f",
			Cosine(query, near), Cosine(query, far))
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: expected 1, got %f", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %f", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("dimension mismatch: expected 0, got %f", got)
	}
	if got := Cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero norm: expected 0, got %f", got)
	}
}

func TestLocked_Concurrent(t *testing.T) {
	e := Locked(NewHashEmbedder(64))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := e.Embed(context.Background(), "concurrent probe"); err != nil {
					t.Errorf("embed: %v", err)
				}
			}
		}()
	}
	wg.Wait()
}
