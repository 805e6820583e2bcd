package domain

import (
	"context"
	"fmt"
)

// FailureKind classifies a failed generator call. Only some kinds are worth
// retrying.
type FailureKind string

const (
	FailureTimeout        FailureKind = "timeout"
	FailureRateLimited    FailureKind = "rate_limited"
	FailureTransient      FailureKind = "transient"
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureUnknown        FailureKind = "unknown"
)

// Retryable reports whether another attempt may succeed.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureTimeout, FailureRateLimited, FailureTransient:
		return true
	}
	return false
}

// GenerationFailure is the classified error returned by a TextGenerator.
type GenerationFailure struct {
	Kind FailureKind
	Err  error
}

func (f *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", f.Kind, f.Err)
}

func (f *GenerationFailure) Unwrap() error {
	return f.Err
}

// NewGenerationFailure wraps a provider error with its classification.
func NewGenerationFailure(kind FailureKind, err error) *GenerationFailure {
	return &GenerationFailure{Kind: kind, Err: err}
}

// TextGenerator is the port to the external generative-text service. A single
// call covers one attempt; the implementation owns the per-attempt timeout
// and returns either raw text or a *GenerationFailure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// ModelName identifies the backing model, recorded on every quiz.
	ModelName() string
}
