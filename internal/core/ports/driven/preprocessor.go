package driven

import "github.com/custodia-labs/qa-agent/internal/core/domain"

// Preprocessor extracts clean, linear text from the raw markup of one document shape.
// Missing structural elements degrade to placeholder text rather than errors.
type Preprocessor interface {
	// Shape returns the document shape this preprocessor handles.
	Shape() domain.DocumentShape

	// GetText extracts the text. Errors are reserved for unparseable input.
	GetText(raw string) (string, error)
}

// PreprocessorRegistry maps document URIs to preprocessors.
type PreprocessorRegistry interface {
	// Register associates a URI with a preprocessor.
	Register(uri string, p Preprocessor)

	// Select returns the preprocessor for uri.
	// Unknown URIs return an error wrapping domain.ErrUnsupportedDocument.
	Select(uri string) (Preprocessor, error)

	// URIs returns the registered URIs in sorted order.
	URIs() []string
}
