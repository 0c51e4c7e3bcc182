// Package handler implements the HTTP API on top of the service layer.
// Handlers parse and validate requests; errors flow to the centralized
// error-handling middleware.
package handler

import (
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/dto"
	"github.com/pkompalli/QBank-Generator/internal/logger"
	"github.com/pkompalli/QBank-Generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReviewHandler handles content review requests
type ReviewHandler struct {
	reviewer  domain.ContentReviewer
	validator *validation.Validator
}

// NewReviewHandler creates a new ReviewHandler instance
func NewReviewHandler(reviewer domain.ContentReviewer) *ReviewHandler {
	return &ReviewHandler{
		reviewer:  reviewer,
		validator: validation.NewValidator(),
	}
}

// Review handles POST /api/review
func (h *ReviewHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateReviewRequest(&req); len(errs) > 0 {
		return errs
	}

	logger.Get().Info("Review requested",
		zap.String("content_type", req.ContentType),
		zap.Int("items", len(req.Items)),
	)

	report, err := h.reviewer.Review(c.Context(), domain.ContentType(req.ContentType), req.Items, req.Domain, req.Course)
	if err != nil {
		return err
	}

	return c.JSON(dto.ReviewResponse{
		Items:   report.Items,
		Summary: report.Summary,
	})
}
