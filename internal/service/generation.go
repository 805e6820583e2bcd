package service

import (
	"context"
	"errors"
	"math"
	"time"

	"quiz-generator/internal/domain"
	"quiz-generator/internal/dto"

	"go.uber.org/zap"
)

// attemptState tracks where a generation run is in its retry loop. Keeping
// the loop as an explicit state machine keeps the shared attempt budget
// auditable.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateValidating
	stateSucceeded
	stateExhaustedFailed
)

func (s attemptState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateValidating:
		return "validating"
	case stateSucceeded:
		return "succeeded"
	case stateExhaustedFailed:
		return "exhausted_failed"
	default:
		return "unknown"
	}
}

// GenerateQuiz runs the full pipeline: resolve content, validate the request,
// build the prompt, drive the bounded attempt loop, assemble the quiz and
// persist it. Validation errors never reach the generator.
func (s *quizService) GenerateQuiz(ctx context.Context, req *domain.GenerationRequest) (*dto.GenerateQuizResponse, error) {
	start := time.Now()
	s.logger.Info("Starting quiz generation", zap.String("book_id", req.BookID))

	req.Options.ApplyDefaults()

	if req.Content == "" && s.contentFetcher != nil {
		s.logger.Info("Content not provided, fetching from content-processor",
			zap.String("book_id", req.BookID))
		content, err := s.contentFetcher.FetchContent(ctx, req.BookID)
		if err != nil {
			return nil, err
		}
		req.Content = content
	}

	if err := s.validator.ValidateGenerationRequest(req); err != nil {
		return nil, err
	}

	if s.cfg.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.OverallTimeout)
		defer cancel()
	}

	prompt := BuildPrompt(req)
	questions, err := s.runGeneration(ctx, prompt, &req.Options)
	if err != nil {
		return nil, err
	}

	quiz := domain.NewQuiz(req.BookID, questions, s.generator.ModelName(), prompt, req.Metadata)
	quizID, err := s.repo.Create(ctx, quiz)
	if err != nil {
		return nil, domain.NewStorageError("failed to persist quiz", err)
	}

	elapsed := time.Since(start).Seconds()
	s.logger.Info("Quiz generation completed",
		zap.String("quiz_id", quizID),
		zap.Int("questions_count", len(questions)),
		zap.Float64("generation_time_seconds", elapsed),
	)

	return &dto.GenerateQuizResponse{
		QuizID:                quizID,
		QuestionsCount:        len(questions),
		Status:                "success",
		GenerationTimeSeconds: math.Round(elapsed*100) / 100,
		AIModelUsed:           s.generator.ModelName(),
	}, nil
}

// runGeneration drives the attempt loop. A single counter bounds both
// AI-call failures and output-validation failures; non-retryable failures
// exit after the attempt that produced them.
func (s *quizService) runGeneration(ctx context.Context, basePrompt string, opts *domain.QuizOptions) ([]domain.Question, error) {
	state := stateAttempting
	prompt := basePrompt
	lastFailure := ""
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(s.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, domain.NewGenerationError(attempt-1, string(domain.FailureTimeout), ctx.Err())
			}
		}

		state = stateAttempting
		attemptStart := time.Now()
		raw, err := s.generator.Generate(ctx, prompt)
		latency := time.Since(attemptStart)

		if err != nil {
			kind := domain.FailureUnknown
			var failure *domain.GenerationFailure
			if errors.As(err, &failure) {
				kind = failure.Kind
			}
			lastFailure = string(kind)
			lastErr = err

			s.logger.Warn("Generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Duration("latency", latency),
				zap.String("state", state.String()),
				zap.String("classification", lastFailure),
				zap.Error(err),
			)

			if !kind.Retryable() {
				state = stateExhaustedFailed
				return nil, domain.NewGenerationError(attempt, lastFailure, err)
			}
			if ctx.Err() != nil {
				state = stateExhaustedFailed
				return nil, domain.NewGenerationError(attempt, string(domain.FailureTimeout), ctx.Err())
			}
			continue
		}

		state = stateValidating
		questions, parseErr := ParseQuestions(raw, opts)
		if parseErr != nil {
			lastFailure = "invalid_output"
			lastErr = parseErr

			s.logger.Warn("Generated output rejected",
				zap.Int("attempt", attempt),
				zap.Duration("latency", latency),
				zap.String("state", state.String()),
				zap.Error(parseErr),
			)

			// An output-validation failure consumes the same budget as a
			// failed AI call. Re-prompt with a corrective instruction.
			prompt = BuildRetryPrompt(basePrompt, parseErr.Error())
			continue
		}

		state = stateSucceeded
		s.logger.Info("Generation attempt succeeded",
			zap.Int("attempt", attempt),
			zap.Duration("latency", latency),
			zap.String("state", state.String()),
			zap.Int("questions", len(questions)),
		)
		return questions, nil
	}

	state = stateExhaustedFailed
	s.logger.Error("Generation attempt budget exhausted",
		zap.Int("attempts", s.cfg.MaxAttempts),
		zap.String("state", state.String()),
		zap.String("last_failure", lastFailure),
	)
	return nil, domain.NewGenerationError(s.cfg.MaxAttempts, lastFailure, lastErr)
}
