package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// LocalDimensions is the embedding width of the local provider, matching the
// all-MiniLM sentence-transformer family so a local index stays compatible.
const LocalDimensions = 384

// LocalProvider is the offline fallback: deterministic hash-seeded unit
// vectors for embeddings and pass-through chat. It never errors on Embed, so
// semantic search stays functional without an API key.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	return strings.TrimSpace(last), nil
}

func (l *LocalProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	vectors := make([][]float32, len(input))
	for i, text := range input {
		vectors[i] = localEmbedding(text)
	}
	return vectors, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

// localEmbedding folds token hashes into a fixed-width vector and
// L2-normalizes it. Identical text always yields an identical vector, and
// shared tokens produce nonzero cosine similarity.
func localEmbedding(text string) []float32 {
	vec := make([]float32, LocalDimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		vec[0] = 1
		return vec
	}
	for _, token := range tokens {
		h := fnv.New64a()
		h.Write([]byte(token))
		state := h.Sum64()
		for j := 0; j < 8; j++ {
			state ^= state << 13
			state ^= state >> 7
			state ^= state << 17
			idx := int(state % LocalDimensions)
			sign := float32(1)
			if (state>>32)&1 == 1 {
				sign = -1
			}
			vec[idx] += sign
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
