package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"quiz-generator/internal/domain"
	"quiz-generator/internal/repository/models"
	"quiz-generator/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

const quizColumns = `id, book_id, questions, created_at, ai_model, generation_prompt, metadata`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB. It is
// the sole writer of the quizzes collection.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// Create implements domain.QuizRepository. The identifier is assigned here;
// created_at keeps the assembly instant carried by the quiz.
func (a *QuizDatabaseAdapter) Create(ctx context.Context, quiz *domain.Quiz) (string, error) {
	modelQuiz, err := toModelQuiz(quiz)
	if err != nil {
		return "", err
	}
	modelQuiz.ID = util.NewULID()
	if modelQuiz.CreatedAt.IsZero() {
		modelQuiz.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO quizzes (
		id, book_id, questions, created_at, ai_model, generation_prompt, metadata
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)`

	_, err = a.db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.BookID,
		modelQuiz.Questions,
		modelQuiz.CreatedAt,
		modelQuiz.AIModel,
		modelQuiz.GenerationPrompt,
		modelQuiz.Metadata,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	return modelQuiz.ID, nil
}

// GetByID implements domain.QuizRepository. Returns nil when no such quiz
// exists.
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz)
}

// List implements domain.QuizRepository. Results come back newest-first by
// created_at; limit is clamped to [1,100] and offset to >= 0.
func (a *QuizDatabaseAdapter) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Quiz, error) {
	limit := filter.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var modelQuizzes []models.Quiz
	var err error
	if filter.BookID != "" {
		query := `SELECT ` + quizColumns + ` FROM quizzes
			WHERE book_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err = a.db.SelectContext(ctx, &modelQuizzes, query, filter.BookID, limit, offset)
	} else {
		query := `SELECT ` + quizColumns + ` FROM quizzes
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`
		err = a.db.SelectContext(ctx, &modelQuizzes, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for i := range modelQuizzes {
		quiz, convErr := toDomainQuiz(&modelQuizzes[i])
		if convErr != nil {
			return nil, convErr
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// Delete implements domain.QuizRepository. Deleting an absent quiz reports
// found = false rather than an error.
func (a *QuizDatabaseAdapter) Delete(ctx context.Context, id string) (bool, error) {
	result, err := a.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Ping implements domain.QuizRepository.
func (a *QuizDatabaseAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func toModelQuiz(quiz *domain.Quiz) (*models.Quiz, error) {
	if quiz == nil {
		return nil, fmt.Errorf("cannot persist nil quiz")
	}

	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	return &models.Quiz{
		ID:        quiz.ID,
		BookID:    quiz.BookID,
		Questions: models.JSONRaw(questionsJSON),
		CreatedAt: quiz.CreatedAt,
		AIModel:   quiz.AIModel,
		GenerationPrompt: sql.NullString{
			String: quiz.GenerationPrompt,
			Valid:  quiz.GenerationPrompt != "",
		},
		Metadata: models.JSONMap(quiz.Metadata),
	}, nil
}

func toDomainQuiz(modelQuiz *models.Quiz) (*domain.Quiz, error) {
	var questions []domain.Question
	if len(modelQuiz.Questions) > 0 {
		if err := json.Unmarshal(modelQuiz.Questions, &questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions for quiz %s: %w", modelQuiz.ID, err)
		}
	}

	return &domain.Quiz{
		ID:               modelQuiz.ID,
		BookID:           modelQuiz.BookID,
		Questions:        questions,
		CreatedAt:        modelQuiz.CreatedAt,
		AIModel:          modelQuiz.AIModel,
		GenerationPrompt: modelQuiz.GenerationPrompt.String,
		Metadata:         map[string]any(modelQuiz.Metadata),
	}, nil
}
