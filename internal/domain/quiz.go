package domain

import (
	"time"
)

// QuestionType identifies the kind of question the generator produced.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeOpen           QuestionType = "open"
)

// IsValid reports whether the question type is one of the recognized variants.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeBoolean, QuestionTypeOpen:
		return true
	}
	return false
}

// Difficulty is the tier assigned to a single question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tiers in canonical order. Largest-remainder
// allocation breaks ties by this order, so per-tier counts are reproducible.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid reports whether the difficulty is a recognized tier.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single validated quiz question.
type Question struct {
	Question       string       `json:"question"`
	Type           QuestionType `json:"type"`
	CorrectAnswer  string       `json:"correct_answer"`
	Options        []string     `json:"options,omitempty"`
	Explanation    string       `json:"explanation"`
	Difficulty     Difficulty   `json:"difficulty"`
	Topic          string       `json:"topic"`
	ConceptsTested []string     `json:"concepts_tested"`
}

// Validate checks a single question against the schema rules. Options are
// required (at least two) for multiple_choice and forbidden for every other
// type.
func (q *Question) Validate() error {
	if q.Question == "" {
		return NewValidationError("question text is required")
	}
	if !q.Type.IsValid() {
		return NewValidationError("unrecognized question type: " + string(q.Type))
	}
	if q.CorrectAnswer == "" {
		return NewValidationError("correct_answer is required")
	}
	if !q.Difficulty.IsValid() {
		return NewValidationError("unrecognized difficulty: " + string(q.Difficulty))
	}
	switch q.Type {
	case QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return NewValidationError("multiple_choice question requires at least 2 options")
		}
	default:
		if len(q.Options) > 0 {
			return NewValidationError(string(q.Type) + " question must not carry options")
		}
	}
	return nil
}

// Quiz is the record assembled from a successful generation run. A quiz is
// immutable once assembled; the repository only supports
// create/read/list/delete.
type Quiz struct {
	ID               string
	BookID           string
	Questions        []Question
	CreatedAt        time.Time
	AIModel          string
	GenerationPrompt string
	Metadata         map[string]any
}

// NewQuiz assembles the final quiz record. CreatedAt is fixed at the assembly
// instant; nothing mutates the record afterwards.
func NewQuiz(bookID string, questions []Question, aiModel, prompt string, metadata map[string]any) *Quiz {
	return &Quiz{
		BookID:           bookID,
		Questions:        questions,
		CreatedAt:        time.Now().UTC(),
		AIModel:          aiModel,
		GenerationPrompt: prompt,
		Metadata:         metadata,
	}
}
