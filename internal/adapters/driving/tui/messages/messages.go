// Package messages defines Bubbletea message types for the chat TUI.
package messages

// AnswerReceived carries the result of a question back to the model.
// When ContextOnly is set, Answer holds the retrieved context.
type AnswerReceived struct {
	Question    string
	Answer      string
	ContextOnly bool
	Err         error
}

// CountLoaded carries the number of indexed records.
type CountLoaded struct {
	Count int
	Err   error
}

// ErrorOccurred signals that an error happened outside a question.
type ErrorOccurred struct {
	Err error
}
