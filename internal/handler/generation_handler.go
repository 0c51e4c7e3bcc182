package handler

import (
	"time"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/dto"
	"github.com/pkompalli/QBank-Generator/internal/logger"
	"github.com/pkompalli/QBank-Generator/internal/service"
	"github.com/pkompalli/QBank-Generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerationHandler handles question generation requests
type GenerationHandler struct {
	generation *service.GenerationService
	validator  *validation.Validator
}

// NewGenerationHandler creates a new GenerationHandler instance
func NewGenerationHandler(generation *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generation: generation,
		validator:  validation.NewValidator(),
	}
}

// Generate handles POST /api/generate
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 10
	}
	if errs := h.validator.ValidateGenerationRequest(&req); len(errs) > 0 {
		return errs
	}

	logger.Get().Info("Generation requested",
		zap.String("course", req.Course),
		zap.String("subject", req.Subject),
		zap.Int("topics", len(req.Topics)),
		zap.Int("num_questions", req.NumQuestions),
	)

	set, err := h.generation.Generate(c.Context(), req.Course, req.Subject, req.Topics, req.NumQuestions)
	if err != nil {
		return err
	}

	return c.JSON(dto.GenerationResponse{
		Success:     true,
		SetID:       set.ID,
		Questions:   set.Questions,
		Count:       len(set.Questions),
		TopicsCount: len(set.Topics),
	})
}

// GetQuestionSet handles GET /api/question-sets/:id
func (h *GenerationHandler) GetQuestionSet(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateQuestionSetID(id); len(errs) > 0 {
		return errs
	}

	set, err := h.generation.GetQuestionSet(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(set)
}

// ListQuestionSets handles GET /api/question-sets
func (h *GenerationHandler) ListQuestionSets(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	sets, err := h.generation.ListQuestionSets(c.Context(), limit)
	if err != nil {
		return err
	}

	summaries := make([]dto.QuestionSetSummary, len(sets))
	for i, set := range sets {
		summaries[i] = dto.QuestionSetSummary{
			ID:        set.ID,
			Course:    set.Course,
			Subject:   set.Subject,
			Topics:    set.Topics,
			Count:     len(set.Questions),
			CreatedAt: set.CreatedAt.Format(time.RFC3339),
		}
	}
	return c.JSON(summaries)
}
