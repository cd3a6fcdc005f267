package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	URI string `json:"uri" jsonschema:"the document URI to index; replaces the current index"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	URI        string `json:"uri"`
	Shape      string `json:"shape"`
	Words      int    `json:"words"`
	Chunks     int    `json:"chunks"`
	Records    int    `json:"records"`
	DurationMS int64  `json:"duration_ms"`
}

// QuestionInput is the input schema for the query and retrieve_context tools.
type QuestionInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed document"`
}

// AnswerOutput is the output schema for the query tool.
type AnswerOutput struct {
	Answer string `json:"answer"`
}

// ContextOutput is the output schema for the retrieve_context tool.
type ContextOutput struct {
	Context string `json:"context"`
}

// CountInput is the empty input schema for the count_records tool.
type CountInput struct{}

// CountOutput is the output schema for the count_records tool.
type CountOutput struct {
	Count int `json:"count"`
}

// DeleteIndexInput is the empty input schema for the delete_index tool.
type DeleteIndexInput struct{}

// DeleteIndexOutput is the output schema for the delete_index tool.
type DeleteIndexOutput struct {
	Deleted bool `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Fetch, chunk and embed a supported document, replacing the current index",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using context retrieved from the indexed document",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_context",
		Description: "Return the indexed chunks most similar to a question, without generating an answer",
	}, s.handleContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_records",
		Description: "Count the records in the vector index",
	}, s.handleCount)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_index",
		Description: "Remove every record from the vector index",
	}, s.handleDeleteIndex)
}

func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	report, err := s.ports.Agent.Index(ctx, input.URI)
	if err != nil {
		return nil, IndexOutput{}, toolError(err)
	}

	return nil, IndexOutput{
		URI:        report.URI,
		Shape:      report.Shape.String(),
		Words:      report.Words,
		Chunks:     report.Chunks,
		Records:    report.Records,
		DurationMS: report.Duration.Milliseconds(),
	}, nil
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	answer, err := s.ports.Agent.Query(ctx, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, toolError(err)
	}
	return nil, AnswerOutput{Answer: answer}, nil
}

func (s *Server) handleContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	retrieved, err := s.ports.Agent.Context(ctx, input.Question)
	if err != nil {
		return nil, ContextOutput{}, toolError(err)
	}
	return nil, ContextOutput{Context: retrieved}, nil
}

func (s *Server) handleCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.ports.Agent.Count(ctx)
	if err != nil {
		return nil, CountOutput{}, toolError(err)
	}
	return nil, CountOutput{Count: n}, nil
}

func (s *Server) handleDeleteIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DeleteIndexInput,
) (*mcp.CallToolResult, DeleteIndexOutput, error) {
	if err := s.ports.Agent.DeleteIndex(ctx); err != nil {
		return nil, DeleteIndexOutput{}, toolError(err)
	}
	return nil, DeleteIndexOutput{Deleted: true}, nil
}
