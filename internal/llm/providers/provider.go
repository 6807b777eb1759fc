package providers

import "context"

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// Provider abstracts the language model backend: chat for phrasing
// descriptive answers and embeddings for the semantic index.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}
