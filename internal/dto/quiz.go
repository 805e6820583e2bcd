package dto

import (
	"time"

	"quiz-generator/internal/domain"
)

// QuizOptionsRequest carries the generation options of an incoming request.
// Zero values mean "use the default".
type QuizOptionsRequest struct {
	NumQuestions           int                `json:"num_questions"`
	DifficultyDistribution map[string]float64 `json:"difficulty_distribution"`
	QuestionTypes          []string           `json:"question_types"`
	Language               string             `json:"language"`
}

// GenerateQuizRequest is the body of POST /generate-quiz.
// @Description Request body for quiz generation
type GenerateQuizRequest struct {
	Content  string              `json:"content"`
	BookID   string              `json:"book_id"`
	Metadata map[string]any      `json:"metadata"`
	Options  *QuizOptionsRequest `json:"options"`
}

// ToDomain converts the request body into the domain request, applying option
// defaults.
func (r *GenerateQuizRequest) ToDomain() *domain.GenerationRequest {
	req := &domain.GenerationRequest{
		Content:  r.Content,
		BookID:   r.BookID,
		Metadata: r.Metadata,
	}
	if r.Options != nil {
		req.Options.NumQuestions = r.Options.NumQuestions
		req.Options.Language = r.Options.Language
		if len(r.Options.DifficultyDistribution) > 0 {
			dist := make(map[domain.Difficulty]float64, len(r.Options.DifficultyDistribution))
			for tier, fraction := range r.Options.DifficultyDistribution {
				dist[domain.Difficulty(tier)] = fraction
			}
			req.Options.DifficultyDistribution = dist
		}
		for _, t := range r.Options.QuestionTypes {
			req.Options.QuestionTypes = append(req.Options.QuestionTypes, domain.QuestionType(t))
		}
	}
	req.Options.ApplyDefaults()
	return req
}

// GenerateQuizResponse is the success body of POST /generate-quiz.
type GenerateQuizResponse struct {
	QuizID                string  `json:"quiz_id"`
	QuestionsCount        int     `json:"questions_count"`
	Status                string  `json:"status"`
	GenerationTimeSeconds float64 `json:"generation_time_seconds"`
	AIModelUsed           string  `json:"ai_model_used"`
}

// QuestionResponse represents a single question in the API response.
type QuestionResponse struct {
	Question       string   `json:"question"`
	Type           string   `json:"type"`
	CorrectAnswer  string   `json:"correct_answer"`
	Options        []string `json:"options,omitempty"`
	Explanation    string   `json:"explanation"`
	Difficulty     string   `json:"difficulty"`
	Topic          string   `json:"topic"`
	ConceptsTested []string `json:"concepts_tested"`
}

// QuizResponse represents a full quiz document in the API response.
// @Description Quiz document
type QuizResponse struct {
	ID               string             `json:"id"`
	BookID           string             `json:"book_id"`
	Questions        []QuestionResponse `json:"questions"`
	CreatedAt        time.Time          `json:"created_at"`
	AIModel          string             `json:"ai_model"`
	GenerationPrompt string             `json:"generation_prompt,omitempty"`
	Metadata         map[string]any     `json:"metadata,omitempty"`
}

// QuizListResponse is the body of GET /quizzes.
type QuizListResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
	Count   int            `json:"count"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// DeleteQuizResponse confirms a successful delete.
type DeleteQuizResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// FromDomainQuiz converts a domain quiz into its response shape.
func FromDomainQuiz(quiz *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionResponse{
			Question:       q.Question,
			Type:           string(q.Type),
			CorrectAnswer:  q.CorrectAnswer,
			Options:        q.Options,
			Explanation:    q.Explanation,
			Difficulty:     string(q.Difficulty),
			Topic:          q.Topic,
			ConceptsTested: q.ConceptsTested,
		})
	}
	return QuizResponse{
		ID:               quiz.ID,
		BookID:           quiz.BookID,
		Questions:        questions,
		CreatedAt:        quiz.CreatedAt,
		AIModel:          quiz.AIModel,
		GenerationPrompt: quiz.GenerationPrompt,
		Metadata:         quiz.Metadata,
	}
}
