package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
)

func TestFormatUserPrompt(t *testing.T) {
	assert.Equal(t,
		"Question: What is RAG?\nContext: chunk one\n\nchunk two\nAnswer:",
		FormatUserPrompt("What is RAG?", "chunk one\n\nchunk two"))
}

func TestGeneratorService_Generate(t *testing.T) {
	llm := &fakeLLM{answer: "  It retrieves, then generates.  "}
	gen := NewGeneratorService(llm, domain.LLMSettings{Temperature: 0, MaxTokens: 0})

	answer, err := gen.Generate(context.Background(), "What is RAG?", "ctx")
	require.NoError(t, err)
	assert.Equal(t, "  It retrieves, then generates.  ", answer, "answer is returned verbatim")

	require.Len(t, llm.messages, 2)
	assert.Equal(t, driven.RoleSystem, llm.messages[0].Role)
	assert.Equal(t, SystemPrompt, llm.messages[0].Content)
	assert.Equal(t, driven.RoleUser, llm.messages[1].Role)
	assert.Equal(t, "Question: What is RAG?\nContext: ctx\nAnswer:", llm.messages[1].Content)
	assert.Equal(t, domain.DefaultMaxTokens, llm.opts.MaxTokens)
	assert.Zero(t, llm.opts.Temperature)
}

func TestGeneratorService_Error(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("%w: status 500", domain.ErrGenerationService)}
	gen := NewGeneratorService(llm, domain.LLMSettings{MaxTokens: 64, Temperature: 0.5})

	_, err := gen.Generate(context.Background(), "q", "c")
	assert.ErrorIs(t, err, domain.ErrGenerationService)
	assert.Equal(t, 64, llm.opts.MaxTokens)
	assert.Equal(t, 0.5, llm.opts.Temperature)
}
