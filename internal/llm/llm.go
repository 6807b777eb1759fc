// Package llm selects the language model provider used for embeddings and
// descriptive phrasing: OpenAI when an API key is configured, otherwise the
// deterministic local fallback.
package llm

import (
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

func NewProvider() Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		logger.Warn("llm: OPENAI_API_KEY not set; falling back to local provider")
		return providers.NewLocalProvider()
	}
	config := openai.DefaultConfig(apiKey)
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
		config.BaseURL = endpoint
	}
	client := openai.NewClientWithConfig(config)
	chatModel := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
	embeddingModel := strings.TrimSpace(os.Getenv("OPENAI_EMBEDDING_MODEL"))
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(client, chatModel, embeddingModel)
}
