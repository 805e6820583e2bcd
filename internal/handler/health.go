package handler

import (
	"quiz-generator/internal/domain"
	"quiz-generator/internal/dto"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "quiz-generator"
const serviceVersion = "1.0.0"

// HealthHandler serves the liveness probe. It checks the storage and cache
// connections but never touches the generation pipeline.
type HealthHandler struct {
	repo  domain.QuizRepository
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance. cache may be nil
// when the service runs without redis.
func NewHealthHandler(repo domain.QuizRepository, cache domain.Cache) *HealthHandler {
	return &HealthHandler{repo: repo, cache: cache}
}

// Health godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	response := dto.HealthResponse{
		Status:   "healthy",
		Service:  serviceName,
		Version:  serviceVersion,
		Database: "connected",
	}

	if err := h.repo.Ping(c.Context()); err != nil {
		response.Status = "unhealthy"
		response.Database = "disconnected"
	}

	switch {
	case h.cache == nil:
		response.Cache = "disabled"
	case h.cache.Ping(c.Context()) != nil:
		response.Cache = "disconnected"
	default:
		response.Cache = "connected"
	}

	return c.JSON(response)
}
