package tui

import "errors"

// ErrMissingAgent is returned when the agent service is not provided.
var ErrMissingAgent = errors.New("tui: agent service is required")
