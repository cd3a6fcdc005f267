package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// Ensure GeneratorService implements the interface.
var _ driving.Generator = (*GeneratorService)(nil)

// SystemPrompt instructs the model to answer from the retrieved context only.
const SystemPrompt = "You are an assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer, just say that you don't know. " +
	"Use three sentences maximum and keep the answer concise."

// UserPrompt formats the question and context. Placeholders are {question}
// and {context}.
const UserPrompt = "Question: {question}\nContext: {context}\nAnswer:"

// GeneratorService produces answers through an LLM.
type GeneratorService struct {
	llm  driven.LLMService
	opts driven.ChatOptions
}

// NewGeneratorService creates a generator using the given sampling settings.
func NewGeneratorService(llm driven.LLMService, settings domain.LLMSettings) *GeneratorService {
	maxTokens := settings.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	return &GeneratorService{
		llm: llm,
		opts: driven.ChatOptions{
			MaxTokens:   maxTokens,
			Temperature: settings.Temperature,
		},
	}
}

// FormatUserPrompt fills the user prompt template.
func FormatUserPrompt(question, retrieved string) string {
	return strings.NewReplacer("{question}", question, "{context}", retrieved).Replace(UserPrompt)
}

// Generate returns the model answer verbatim.
func (s *GeneratorService) Generate(ctx context.Context, question, retrieved string) (string, error) {
	logger.Section("Generation")
	logger.Debug("Model: %s, context: %d chars", s.llm.ModelName(), len(retrieved))

	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: SystemPrompt},
		{Role: driven.RoleUser, Content: FormatUserPrompt(question, retrieved)},
	}, s.opts)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}
