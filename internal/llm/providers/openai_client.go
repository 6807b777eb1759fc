package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider backs Provider with the OpenAI API.
type OpenAIProvider struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
}

func NewOpenAIProvider(client *openai.Client, chatModel, embeddingModel string) *OpenAIProvider {
	if strings.TrimSpace(chatModel) == "" {
		chatModel = openai.GPT4oMini
	}
	model := openai.EmbeddingModel(strings.TrimSpace(embeddingModel))
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &OpenAIProvider{client: client, chatModel: chatModel, embeddingModel: model}
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p == nil || p.client == nil {
		return "", errors.New("openai client not configured")
	}
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		converted = append(converted, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: converted,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("openai client not configured")
	}
	if len(input) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: input,
		Model: p.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(input))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}
