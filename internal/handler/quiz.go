package handler

import (
	"quiz-generator/internal/domain"
	"quiz-generator/internal/dto"
	"quiz-generator/internal/logger"
	"quiz-generator/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from content
// @Description Builds a prompt from the request, calls the AI backend and persists the validated quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation request"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if req.BookID == "" {
		return domain.NewValidationError("book_id is required")
	}

	logger.Get().Info("Received quiz generation request", zap.String("book_id", req.BookID))

	response, err := h.service.GenerateQuiz(c.Context(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetQuiz godoc
// @Summary Get a quiz by ID
// @Description Returns the full quiz document
// @Tags quiz
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quiz_id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quiz_id")
	if quizID == "" {
		return domain.NewValidationError("quiz_id is required")
	}

	quiz, err := h.service.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Returns quiz documents newest-first, optionally filtered by book
// @Tags quiz
// @Produce json
// @Param book_id query string false "Filter by book ID"
// @Param limit query int false "Number of quizzes to return" default(10)
// @Param offset query int false "Number of quizzes to skip" default(0)
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	bookID := c.Query("book_id")
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	result, err := h.service.ListQuizzes(c.Context(), bookID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Removes the quiz; deleting an absent quiz returns 404
// @Tags quiz
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.DeleteQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quiz_id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quiz_id")
	if quizID == "" {
		return domain.NewValidationError("quiz_id is required")
	}

	if err := h.service.DeleteQuiz(c.Context(), quizID); err != nil {
		return err
	}
	return c.JSON(dto.DeleteQuizResponse{
		Message: "Quiz " + quizID + " deleted successfully",
	})
}
