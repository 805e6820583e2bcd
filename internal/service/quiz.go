package service

import (
	"context"
	"encoding/json"
	"fmt"

	"quiz-generator/internal/cache"
	"quiz-generator/internal/config"
	"quiz-generator/internal/domain"
	"quiz-generator/internal/dto"
	"quiz-generator/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *domain.GenerationRequest) (*dto.GenerateQuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context, bookID string, limit, offset int) (*dto.QuizListResponse, error)
	DeleteQuiz(ctx context.Context, quizID string) error
}

// quizService implements QuizService
type quizService struct {
	repo           domain.QuizRepository
	generator      domain.TextGenerator
	cache          domain.Cache
	contentFetcher domain.ContentFetcher
	validator      *validation.Validator
	cfg            config.GenerationConfig
	logger         *zap.Logger
	group          singleflight.Group
}

// NewQuizService creates a new instance of quizService. contentFetcher and
// cache may be nil; the service then skips content resolution and caching.
func NewQuizService(
	repo domain.QuizRepository,
	generator domain.TextGenerator,
	cacheAdapter domain.Cache,
	contentFetcher domain.ContentFetcher,
	cfg config.GenerationConfig,
	logger *zap.Logger,
) QuizService {
	return &quizService{
		repo:           repo,
		generator:      generator,
		cache:          cacheAdapter,
		contentFetcher: contentFetcher,
		validator:      validation.NewValidator(cfg.MinContentLength, cfg.MaxQuestions),
		cfg:            cfg,
		logger:         logger,
	}
}

// GetQuiz returns the full quiz document. Reads go through the cache;
// concurrent fills for the same quiz are collapsed with singleflight.
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cache.QuizKey(quizID))
		if err == nil {
			var response dto.QuizResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return &response, nil
			}
			// A corrupt cache entry is dropped and refilled from storage.
			_ = s.cache.Delete(ctx, cache.QuizKey(quizID))
		} else if err != domain.ErrCacheMiss {
			s.logger.Warn("Cache lookup failed", zap.String("quiz_id", quizID), zap.Error(err))
		}
	}

	result, err, _ := s.group.Do(quizID, func() (any, error) {
		quiz, err := s.repo.GetByID(ctx, quizID)
		if err != nil {
			return nil, domain.NewStorageError("failed to get quiz", err)
		}
		if quiz == nil {
			return nil, domain.NewQuizNotFoundError(quizID)
		}

		response := dto.FromDomainQuiz(quiz)
		if s.cache != nil {
			if payload, marshalErr := json.Marshal(response); marshalErr == nil {
				if cacheErr := s.cache.Set(ctx, cache.QuizKey(quizID), string(payload), s.cfg.CacheTTL); cacheErr != nil {
					s.logger.Warn("Failed to cache quiz", zap.String("quiz_id", quizID), zap.Error(cacheErr))
				}
			}
		}
		return &response, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.QuizResponse), nil
}

// ListQuizzes returns quiz documents newest-first, optionally filtered by
// book. Limit and offset clamping happens at the repository boundary.
func (s *quizService) ListQuizzes(ctx context.Context, bookID string, limit, offset int) (*dto.QuizListResponse, error) {
	quizzes, err := s.repo.List(ctx, domain.ListFilter{
		BookID: bookID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, domain.NewStorageError("failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.FromDomainQuiz(quiz))
	}

	return &dto.QuizListResponse{
		Quizzes: responses,
		Count:   len(responses),
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// DeleteQuiz removes the quiz and its cache entry. Deleting an absent quiz
// surfaces as not-found so callers get delete-and-confirm semantics.
func (s *quizService) DeleteQuiz(ctx context.Context, quizID string) error {
	found, err := s.repo.Delete(ctx, quizID)
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to delete quiz %s", quizID), err)
	}
	if !found {
		return domain.NewQuizNotFoundError(quizID)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, cache.QuizKey(quizID)); cacheErr != nil {
			s.logger.Warn("Failed to invalidate quiz cache", zap.String("quiz_id", quizID), zap.Error(cacheErr))
		}
	}

	s.logger.Info("Quiz deleted", zap.String("quiz_id", quizID))
	return nil
}
