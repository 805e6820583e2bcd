package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quiz-generator/internal/domain"
)

// histogramTolerance is the allowed deviation, per difficulty tier, between
// the realized question counts and the largest-remainder targets.
const histogramTolerance = 1

// candidateQuestion mirrors the JSON shape the model is instructed to emit.
// correct_answer is decoded loosely because models occasionally return a bare
// boolean or number there.
type candidateQuestion struct {
	Question       string   `json:"question"`
	Type           string   `json:"type"`
	CorrectAnswer  any      `json:"correct_answer"`
	Options        []string `json:"options"`
	Explanation    string   `json:"explanation"`
	Difficulty     string   `json:"difficulty"`
	Topic          string   `json:"topic"`
	ConceptsTested []string `json:"concepts_tested"`
}

type candidatePayload struct {
	Questions []candidateQuestion `json:"questions"`
}

// ExtractPayload locates the JSON document inside the raw generator output,
// tolerating markdown fences, reasoning blocks and surrounding prose.
func ExtractPayload(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 {
			cleaned = cleaned[thinkEnd+len("</think>"):]
		}
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}

	return cleaned[start : end+1], nil
}

// ParseQuestions extracts the structured questions from the raw generator
// output and validates them against the request constraints. Any structural
// violation rejects the whole batch; partial quizzes are not an acceptable
// output. Every error returned here is a retryable generation failure.
func ParseQuestions(raw string, opts *domain.QuizOptions) ([]domain.Question, error) {
	payload, err := ExtractPayload(raw)
	if err != nil {
		return nil, err
	}

	var decoded candidatePayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %w", err)
	}
	if len(decoded.Questions) == 0 {
		return nil, fmt.Errorf("no 'questions' in response")
	}

	questions := make([]domain.Question, 0, len(decoded.Questions))
	for i, candidate := range decoded.Questions {
		question := domain.Question{
			Question:       candidate.Question,
			Type:           domain.QuestionType(candidate.Type),
			CorrectAnswer:  normalizeAnswer(candidate.CorrectAnswer),
			Options:        candidate.Options,
			Explanation:    candidate.Explanation,
			Difficulty:     domain.Difficulty(candidate.Difficulty),
			Topic:          candidate.Topic,
			ConceptsTested: candidate.ConceptsTested,
		}
		if err := question.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, question)
	}

	if err := verifyConstraints(questions, opts); err != nil {
		return nil, err
	}

	return questions, nil
}

// verifyConstraints checks the aggregate against the requested count, type
// set and difficulty distribution.
func verifyConstraints(questions []domain.Question, opts *domain.QuizOptions) error {
	if len(questions) != opts.NumQuestions {
		return fmt.Errorf("expected %d questions, got %d", opts.NumQuestions, len(questions))
	}

	histogram := make(map[domain.Difficulty]int)
	for _, q := range questions {
		if !opts.AllowsType(q.Type) {
			return fmt.Errorf("question type %q is not in the requested set", q.Type)
		}
		histogram[q.Difficulty]++
	}

	targets := DifficultyCounts(opts.NumQuestions, opts.DifficultyDistribution)
	for _, tier := range domain.Difficulties {
		target := targets[tier]
		got := histogram[tier]
		// A tier with no allocation gets no tolerance: zero means zero,
		// whether the tier was absent or carried a 0.0 fraction.
		if target == 0 && got > 0 {
			return fmt.Errorf("difficulty %q was not requested but got %d questions", tier, got)
		}
		if abs(got-target) > histogramTolerance {
			return fmt.Errorf("difficulty %q: expected about %d questions, got %d", tier, target, got)
		}
	}

	return nil
}

// normalizeAnswer flattens the loosely-typed correct_answer into a string.
// Booleans become "true"/"false", numbers keep their literal form.
func normalizeAnswer(answer any) string {
	switch v := answer.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
