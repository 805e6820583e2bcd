package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"quiz-generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildQuestionsJSON produces a generator response that satisfies the given
// options: correct count, allowed types, largest-remainder tier counts.
func buildQuestionsJSON(t *testing.T, opts *domain.QuizOptions) string {
	t.Helper()

	counts := DifficultyCounts(opts.NumQuestions, opts.DifficultyDistribution)
	questions := make([]map[string]any, 0, opts.NumQuestions)
	i := 0
	for _, tier := range domain.Difficulties {
		for n := 0; n < counts[tier]; n++ {
			qType := opts.QuestionTypes[i%len(opts.QuestionTypes)]
			question := map[string]any{
				"question":        fmt.Sprintf("Question %d?", i+1),
				"type":            string(qType),
				"correct_answer":  "Answer",
				"explanation":     "Because of the source material.",
				"difficulty":      string(tier),
				"topic":           "Topic",
				"concepts_tested": []string{"concept"},
			}
			switch qType {
			case domain.QuestionTypeMultipleChoice:
				question["options"] = []string{"Answer", "B", "C", "D"}
			case domain.QuestionTypeBoolean:
				question["correct_answer"] = "true"
			}
			questions = append(questions, question)
			i++
		}
	}

	payload, err := json.Marshal(map[string]any{"questions": questions})
	require.NoError(t, err)
	return string(payload)
}

func defaultOptions() *domain.QuizOptions {
	opts := &domain.QuizOptions{}
	opts.ApplyDefaults()
	return opts
}

func TestExtractPayload(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		payload, err := ExtractPayload(`{"questions": []}`)
		assert.NoError(t, err)
		assert.Equal(t, `{"questions": []}`, payload)
	})

	t.Run("MarkdownFences", func(t *testing.T) {
		payload, err := ExtractPayload("```json\n{\"questions\": []}\n```")
		assert.NoError(t, err)
		assert.Equal(t, "{\"questions\": []}", payload)
	})

	t.Run("SurroundingProse", func(t *testing.T) {
		raw := "Here is the quiz you asked for:\n{\"questions\": []}\nLet me know if you need more."
		payload, err := ExtractPayload(raw)
		assert.NoError(t, err)
		assert.Equal(t, "{\"questions\": []}", payload)
	})

	t.Run("ReasoningBlock", func(t *testing.T) {
		raw := "<think>planning the quiz</think>{\"questions\": []}"
		payload, err := ExtractPayload(raw)
		assert.NoError(t, err)
		assert.Equal(t, "{\"questions\": []}", payload)
	})

	t.Run("NoJSON", func(t *testing.T) {
		_, err := ExtractPayload("I could not generate a quiz, sorry.")
		assert.Error(t, err)
	})
}

func TestParseQuestionsSuccess(t *testing.T) {
	opts := defaultOptions()
	raw := buildQuestionsJSON(t, opts)

	questions, err := ParseQuestions(raw, opts)
	require.NoError(t, err)
	assert.Len(t, questions, opts.NumQuestions)

	for _, q := range questions {
		assert.True(t, opts.AllowsType(q.Type))
		if q.Type == domain.QuestionTypeMultipleChoice {
			assert.GreaterOrEqual(t, len(q.Options), 2)
		} else {
			assert.Empty(t, q.Options)
		}
	}
}

func TestParseQuestionsWrappedResponse(t *testing.T) {
	opts := defaultOptions()
	raw := "Sure! Here is the quiz:\n```json\n" + buildQuestionsJSON(t, opts) + "\n```"

	questions, err := ParseQuestions(raw, opts)
	require.NoError(t, err)
	assert.Len(t, questions, opts.NumQuestions)
}

func TestParseQuestionsBooleanAnswerNormalized(t *testing.T) {
	opts := &domain.QuizOptions{
		NumQuestions:           1,
		DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyEasy: 1.0},
		QuestionTypes:          []domain.QuestionType{domain.QuestionTypeBoolean},
		Language:               "en",
	}
	raw := `{"questions": [{
		"question": "The sky is blue?",
		"type": "boolean",
		"correct_answer": true,
		"explanation": "It scatters blue light.",
		"difficulty": "easy",
		"topic": "Physics",
		"concepts_tested": ["light"]
	}]}`

	questions, err := ParseQuestions(raw, opts)
	require.NoError(t, err)
	assert.Equal(t, "true", questions[0].CorrectAnswer)
}

func TestParseQuestionsRejectsWholeBatch(t *testing.T) {
	opts := defaultOptions()

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ParseQuestions(`{"questions": [{"question": "broken"`, opts)
		assert.Error(t, err)
	})

	t.Run("MissingQuestionsKey", func(t *testing.T) {
		_, err := ParseQuestions(`{"items": []}`, opts)
		assert.Error(t, err)
	})

	t.Run("WrongCount", func(t *testing.T) {
		smaller := &domain.QuizOptions{}
		smaller.ApplyDefaults()
		smaller.NumQuestions = 3
		raw := buildQuestionsJSON(t, smaller)
		_, err := ParseQuestions(raw, opts)
		assert.ErrorContains(t, err, "expected 10 questions")
	})

	t.Run("TypeOutsideRequestedSet", func(t *testing.T) {
		openOnly := &domain.QuizOptions{
			NumQuestions:           1,
			DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyEasy: 1.0},
			QuestionTypes:          []domain.QuestionType{domain.QuestionTypeOpen},
			Language:               "en",
		}
		raw := buildQuestionsJSON(t, openOnly)

		mcOnly := &domain.QuizOptions{
			NumQuestions:           1,
			DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyEasy: 1.0},
			QuestionTypes:          []domain.QuestionType{domain.QuestionTypeMultipleChoice},
			Language:               "en",
		}
		_, err := ParseQuestions(raw, mcOnly)
		assert.ErrorContains(t, err, "not in the requested set")
	})

	t.Run("MultipleChoiceWithoutOptions", func(t *testing.T) {
		raw := `{"questions": [{
			"question": "Pick one?",
			"type": "multiple_choice",
			"correct_answer": "A",
			"explanation": "A is correct.",
			"difficulty": "easy",
			"topic": "T",
			"concepts_tested": []
		}]}`
		opts := &domain.QuizOptions{
			NumQuestions:           1,
			DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyEasy: 1.0},
			QuestionTypes:          []domain.QuestionType{domain.QuestionTypeMultipleChoice},
			Language:               "en",
		}
		_, err := ParseQuestions(raw, opts)
		assert.ErrorContains(t, err, "at least 2 options")
	})

	t.Run("OpenQuestionWithOptions", func(t *testing.T) {
		raw := `{"questions": [{
			"question": "Explain gravity.",
			"type": "open",
			"correct_answer": "Masses attract.",
			"options": ["A", "B"],
			"explanation": "Newton.",
			"difficulty": "easy",
			"topic": "Physics",
			"concepts_tested": []
		}]}`
		opts := &domain.QuizOptions{
			NumQuestions:           1,
			DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyEasy: 1.0},
			QuestionTypes:          []domain.QuestionType{domain.QuestionTypeOpen},
			Language:               "en",
		}
		_, err := ParseQuestions(raw, opts)
		assert.ErrorContains(t, err, "must not carry options")
	})
}

func TestParseQuestionsHistogramTolerance(t *testing.T) {
	opts := defaultOptions()

	// Shift one question from medium to easy: still within one unit per tier.
	shifted := &domain.QuizOptions{
		NumQuestions: 10,
		DifficultyDistribution: map[domain.Difficulty]float64{
			domain.DifficultyEasy:   0.4,
			domain.DifficultyMedium: 0.4,
			domain.DifficultyHard:   0.2,
		},
		QuestionTypes: opts.QuestionTypes,
		Language:      opts.Language,
	}
	raw := buildQuestionsJSON(t, shifted)
	_, err := ParseQuestions(raw, opts)
	assert.NoError(t, err, "one unit of per-tier drift must be tolerated")

	// All questions in a single tier blows way past the tolerance.
	allHard := &domain.QuizOptions{
		NumQuestions:           10,
		DifficultyDistribution: map[domain.Difficulty]float64{domain.DifficultyHard: 1.0},
		QuestionTypes:          opts.QuestionTypes,
		Language:               opts.Language,
	}
	raw = buildQuestionsJSON(t, allHard)
	_, err = ParseQuestions(raw, opts)
	assert.Error(t, err)
}

func TestParseQuestionsZeroWeightTierGetsNoTolerance(t *testing.T) {
	// hard is present in the distribution but carries no weight; a single
	// hard question must reject the batch rather than ride the tolerance.
	requested := &domain.QuizOptions{
		NumQuestions: 2,
		DifficultyDistribution: map[domain.Difficulty]float64{
			domain.DifficultyEasy:   0.5,
			domain.DifficultyMedium: 0.5,
			domain.DifficultyHard:   0.0,
		},
		QuestionTypes: []domain.QuestionType{domain.QuestionTypeOpen},
		Language:      "en",
	}

	produced := &domain.QuizOptions{
		NumQuestions: 2,
		DifficultyDistribution: map[domain.Difficulty]float64{
			domain.DifficultyEasy: 0.5,
			domain.DifficultyHard: 0.5,
		},
		QuestionTypes: requested.QuestionTypes,
		Language:      requested.Language,
	}
	raw := buildQuestionsJSON(t, produced)

	_, err := ParseQuestions(raw, requested)
	assert.ErrorContains(t, err, `"hard" was not requested`)
}
