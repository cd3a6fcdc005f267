// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/qa-agent/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/qa-agent/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/qa-agent/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/qa-agent/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/qa-agent/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/qa-agent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/qa-agent/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the AI clients built from configuration.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices creates both clients. On failure nothing is left open.
func NewServices(ctx context.Context, embedding domain.EmbeddingSettings, llm domain.LLMSettings) (*Services, error) {
	emb, err := CreateEmbeddingService(ctx, embedding)
	if err != nil {
		return nil, err
	}
	gen, err := CreateLLMService(ctx, llm)
	if err != nil {
		emb.Close()
		return nil, err
	}
	return &Services{Embedding: emb, LLM: gen}, nil
}

// Check pings both services and reports every failure.
func (s *Services) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var errs []error
	if err := s.Embedding.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("embedding model %s: %w", s.Embedding.ModelName(), err))
	}
	if err := s.LLM.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("llm model %s: %w", s.LLM.ModelName(), err))
	}
	return errors.Join(errs...)
}

// CreateEmbeddingService creates the embedding service named by settings.Provider.
func CreateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrNotConfigured, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", domain.ErrInvalidInput, settings.Provider)
	}
}

// CreateLLMService creates the LLM service named by settings.Provider.
func CreateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrNotConfigured, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrInvalidInput, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
// An explicit dimensions setting wins over the model table.
func createOllamaEmbedding(settings domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Dimensions:        settings.Dimensions,
		RequestsPerSecond: settings.RateLimit,
	})
}
