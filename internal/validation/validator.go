package validation

import (
	"fmt"
	"math"
	"quiz-generator/internal/domain"
	"strings"
	"unicode/utf8"
)

// distributionEpsilon is the tolerance applied when checking that the
// difficulty fractions sum to 1.0.
const distributionEpsilon = 0.01

// Validator enforces the structural sanity of generation requests before any
// AI cost is incurred.
type Validator struct {
	minContentLength int
	maxQuestions     int
}

// NewValidator creates a new validator instance with the configured bounds.
func NewValidator(minContentLength, maxQuestions int) *Validator {
	return &Validator{
		minContentLength: minContentLength,
		maxQuestions:     maxQuestions,
	}
}

// ValidateGenerationRequest checks the request and fails fast on the first
// violated constraint. Defaults must already be applied to the options.
func (v *Validator) ValidateGenerationRequest(req *domain.GenerationRequest) error {
	// Characters, not bytes; accented text must not slip under the minimum.
	if trimmed := strings.TrimSpace(req.Content); utf8.RuneCountInString(trimmed) < v.minContentLength {
		return domain.NewValidationError(
			fmt.Sprintf("content must be at least %d characters long", v.minContentLength))
	}

	opts := req.Options
	if opts.NumQuestions < 1 || opts.NumQuestions > v.maxQuestions {
		return domain.NewValidationError(
			fmt.Sprintf("num_questions must be between 1 and %d", v.maxQuestions))
	}

	sum := 0.0
	for tier, fraction := range opts.DifficultyDistribution {
		if !tier.IsValid() {
			return domain.NewValidationError("unrecognized difficulty tier: " + string(tier))
		}
		if fraction < 0 {
			return domain.NewValidationError("difficulty fractions must be non-negative")
		}
		sum += fraction
	}
	if math.Abs(sum-1.0) > distributionEpsilon {
		return domain.NewValidationError(
			fmt.Sprintf("difficulty_distribution must sum to 1.0, got %.3f", sum))
	}

	if len(opts.QuestionTypes) == 0 {
		return domain.NewValidationError("question_types must not be empty")
	}
	for _, t := range opts.QuestionTypes {
		if !t.IsValid() {
			return domain.NewValidationError("unrecognized question type: " + string(t))
		}
	}

	return nil
}
