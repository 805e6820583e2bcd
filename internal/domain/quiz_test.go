package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{
		Question:      "Which algorithm minimizes squared error?",
		Type:          QuestionTypeMultipleChoice,
		CorrectAnswer: "Linear regression",
		Options:       []string{"Linear regression", "K-means", "Apriori", "PageRank"},
		Explanation:   "Least squares fits a line by minimizing squared error.",
		Difficulty:    DifficultyMedium,
		Topic:         "Regression",
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("MissingText", func(t *testing.T) {
		q := valid
		q.Question = ""
		assert.Error(t, q.Validate())
	})

	t.Run("UnknownType", func(t *testing.T) {
		q := valid
		q.Type = "essay"
		assert.Error(t, q.Validate())
	})

	t.Run("MissingAnswer", func(t *testing.T) {
		q := valid
		q.CorrectAnswer = ""
		assert.Error(t, q.Validate())
	})

	t.Run("UnknownDifficulty", func(t *testing.T) {
		q := valid
		q.Difficulty = "extreme"
		assert.Error(t, q.Validate())
	})

	t.Run("MultipleChoiceNeedsOptions", func(t *testing.T) {
		q := valid
		q.Options = []string{"only one"}
		assert.Error(t, q.Validate())
	})

	t.Run("BooleanMustNotCarryOptions", func(t *testing.T) {
		q := valid
		q.Type = QuestionTypeBoolean
		q.CorrectAnswer = "true"
		assert.Error(t, q.Validate())

		q.Options = nil
		assert.NoError(t, q.Validate())
	})
}

func TestQuizOptionsApplyDefaults(t *testing.T) {
	t.Run("EmptyGetsAllDefaults", func(t *testing.T) {
		var opts QuizOptions
		opts.ApplyDefaults()

		assert.Equal(t, DefaultNumQuestions, opts.NumQuestions)
		assert.Equal(t, DefaultLanguage, opts.Language)
		assert.Equal(t, DefaultDifficultyDistribution(), opts.DifficultyDistribution)
		assert.Equal(t, DefaultQuestionTypes(), opts.QuestionTypes)
	})

	t.Run("ProvidedValuesKept", func(t *testing.T) {
		opts := QuizOptions{
			NumQuestions:           7,
			DifficultyDistribution: map[Difficulty]float64{DifficultyHard: 1.0},
			QuestionTypes:          []QuestionType{QuestionTypeOpen},
			Language:               "en",
		}
		opts.ApplyDefaults()

		assert.Equal(t, 7, opts.NumQuestions)
		assert.Equal(t, "en", opts.Language)
		assert.Equal(t, map[Difficulty]float64{DifficultyHard: 1.0}, opts.DifficultyDistribution)
		assert.Equal(t, []QuestionType{QuestionTypeOpen}, opts.QuestionTypes)
	})
}

func TestQuizOptionsAllowsType(t *testing.T) {
	opts := QuizOptions{QuestionTypes: []QuestionType{QuestionTypeBoolean}}
	assert.True(t, opts.AllowsType(QuestionTypeBoolean))
	assert.False(t, opts.AllowsType(QuestionTypeMultipleChoice))
}

func TestNewQuizFixesAssemblyInstant(t *testing.T) {
	quiz := NewQuiz("book_1", nil, "claude-3-5-haiku-20241022", "prompt", map[string]any{"k": "v"})
	require.NotNil(t, quiz)
	assert.Empty(t, quiz.ID, "identifier is assigned at persistence time")
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.Equal(t, quiz.CreatedAt, quiz.CreatedAt.UTC())
}

func TestGenerationFailure(t *testing.T) {
	cause := errors.New("connection refused")
	failure := NewGenerationFailure(FailureTransient, cause)

	assert.ErrorIs(t, failure, cause)
	assert.Contains(t, failure.Error(), "transient")

	var target *GenerationFailure
	require.True(t, errors.As(error(failure), &target))
	assert.Equal(t, FailureTransient, target.Kind)
}

func TestDomainErrorContext(t *testing.T) {
	err := NewGenerationError(3, "invalid_output", errors.New("histogram mismatch"))
	assert.Equal(t, CodeGenerationFailed, err.Code)
	assert.Equal(t, 3, err.Context["attempts"])
	assert.Equal(t, "invalid_output", err.Context["last_failure"])
	assert.ErrorContains(t, err, "quiz generation failed")
	assert.ErrorContains(t, err, "histogram mismatch")

	withBook := err.WithContext("book_id", "book_1")
	assert.Equal(t, "book_1", withBook.Context["book_id"])
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad input")))
	assert.False(t, IsValidationError(NewStorageError("insert failed", errors.New("down"))))
	assert.False(t, IsValidationError(errors.New("plain")))
}
