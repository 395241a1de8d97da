package matching

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid match input")
	ErrEmbedding    = errors.New("embedding failed")
)

// InputError reports a violated precondition. No partial result accompanies it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason) }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// EmbeddingError reports a failed provider call or a degenerate vector. Label
// is empty when the failure is not tied to a single label.
type EmbeddingError struct {
	Label string
	Err   error
}

func (e *EmbeddingError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s for %q: %v", ErrEmbedding, e.Label, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrEmbedding, e.Err)
}

func (e *EmbeddingError) Unwrap() []error { return []error{ErrEmbedding, e.Err} }
