package driving

import "github.com/custodia-labs/qa-agent/internal/core/domain"

// Setting is one effective configuration value, formatted for display.
type Setting struct {
	Key    string
	Value  string
	Source string // "default", "file" or "env"
}

// SettingsService resolves and edits application configuration.
type SettingsService interface {
	// Get assembles the effective configuration: defaults, then the config
	// file, then environment overrides. The result is not validated.
	Get() (domain.Config, error)

	// Set parses value for key and persists it. Unknown keys and values of
	// the wrong type fail with domain.ErrInvalidInput.
	Set(key, value string) error

	// List returns every known key with its effective value. Secrets are masked.
	List() ([]Setting, error)

	// Path returns the config file location.
	Path() string
}
