package mcp

import (
	"context"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// mockAgent is a mock implementation of driving.Agent.
type mockAgent struct {
	report    domain.IndexReport
	answer    string
	retrieved string
	count     int
	err       error
	question  string
	uri       string
	deleted   bool
}

func (m *mockAgent) Index(_ context.Context, uri string) (domain.IndexReport, error) {
	m.uri = uri
	return m.report, m.err
}

func (m *mockAgent) Query(_ context.Context, question string) (string, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockAgent) Context(_ context.Context, question string) (string, error) {
	m.question = question
	return m.retrieved, m.err
}

func (m *mockAgent) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockAgent) DeleteIndex(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = true
	return nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	infos   []driving.DocumentInfo
	content map[string]string
	err     error
}

func (m *mockDocumentService) List(_ context.Context) ([]driving.DocumentInfo, error) {
	return m.infos, m.err
}

func (m *mockDocumentService) Content(_ context.Context, uri string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content[uri], nil
}

func (m *mockDocumentService) ClearCache() error {
	return m.err
}
