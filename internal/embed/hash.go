package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashEmbedder is the offline backend: token feature hashing into a
// fixed number of buckets, L2-normalized. It captures lexical overlap
// only, no real semantics, but it is fully deterministic and needs no
// model download, which makes it the default and the test backend.
type HashEmbedder struct {
	Dim int
}

const defaultHashDim = 256

func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = defaultHashDim
	}
	return &HashEmbedder{Dim: dim}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.Dim)
	tokens := tokenize(text)
	for i, tok := range tokens {
		vec[bucket(tok, e.Dim)]++
		if i+1 < len(tokens) {
			// Bigrams keep some word order signal.
			vec[bucket(tok+" "+tokens[i+1], e.Dim)]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}
	return vec, nil
}

func bucket(token string, dim int) int {
	h := fnv.New64a()
	h.Write([]byte(token))
	return int(h.Sum64() % uint64(dim))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
