// Package services implements the driving port interfaces.
// Services contain the question-answering pipeline and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies; every collaborator
// is passed in through its constructor.
package services
