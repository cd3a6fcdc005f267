package driven

// TextSplitter partitions cleaned text into ordered, overlapping chunks.
// Chunk size and overlap are fixed at construction.
type TextSplitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split returns the chunks of text in document order.
	// Empty or whitespace-only text yields no chunks.
	Split(text string) ([]string, error)
}
