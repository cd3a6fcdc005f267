package mcp

import (
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Agent indexes documents and answers questions.
	Agent driving.Agent

	// Documents lists supported documents. Optional; resources are empty without it.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Agent == nil {
		return ErrMissingAgent
	}
	return nil
}
