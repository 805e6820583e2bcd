package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-generator/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"
)

// AnthropicGenerator implements domain.TextGenerator over the langchaingo
// Anthropic client. One Generate call is one attempt; retries live in the
// generation service, not here.
type AnthropicGenerator struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnthropicGenerator creates a new AnthropicGenerator.
func NewAnthropicGenerator(apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (domain.TextGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("anthropic model name cannot be empty")
	}

	llm, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	logger.Info("Initializing AnthropicGenerator", zap.String("model", modelName))
	return &AnthropicGenerator{
		llm:       llm,
		modelName: modelName,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// ModelName implements domain.TextGenerator.
func (g *AnthropicGenerator) ModelName() string {
	return g.modelName
}

// Generate implements domain.TextGenerator. Failures come back as
// *domain.GenerationFailure so the caller can decide whether another attempt
// is worthwhile.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(callCtx, g.llm, prompt,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(4000),
	)
	latency := time.Since(start)

	if err != nil {
		kind := ClassifyProviderError(err)
		g.logger.Warn("Anthropic call failed",
			zap.Duration("latency", latency),
			zap.String("classification", string(kind)),
			zap.Error(err),
		)
		return "", domain.NewGenerationFailure(kind, err)
	}

	g.logger.Info("Anthropic call succeeded",
		zap.Duration("latency", latency),
		zap.Int("response_length", len(response)),
	)
	return response, nil
}

// ClassifyProviderError buckets a provider error into the retry taxonomy.
// The Anthropic client surfaces plain errors, so classification leans on the
// status code embedded in the message.
func ClassifyProviderError(err error) domain.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return domain.FailureTimeout
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit"):
		return domain.FailureRateLimited
	case strings.Contains(msg, "overloaded") || strings.Contains(msg, "529") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "502") || strings.Contains(msg, "500"):
		return domain.FailureTransient
	case strings.Contains(msg, "400") || strings.Contains(msg, "invalid_request") ||
		strings.Contains(msg, "invalid request") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "authentication"):
		return domain.FailureInvalidRequest
	default:
		return domain.FailureUnknown
	}
}

var _ domain.TextGenerator = (*AnthropicGenerator)(nil)
