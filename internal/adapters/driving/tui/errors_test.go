package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingAgent(t *testing.T) {
	assert.EqualError(t, ErrMissingAgent, "tui: agent service is required")
}
