package handler

import (
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/dto"
	"github.com/pkompalli/QBank-Generator/internal/service"
	"github.com/pkompalli/QBank-Generator/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ImageHandler handles image resolution requests
type ImageHandler struct {
	images    *service.ImageService
	validator *validation.Validator
}

// NewImageHandler creates a new ImageHandler instance
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{
		images:    images,
		validator: validation.NewValidator(),
	}
}

// Resolve handles POST /api/images/resolve
func (h *ImageHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ImageResolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateImageResolutionRequest(&req); len(errs) > 0 {
		return errs
	}

	desc, err := h.images.Resolve(c.Context(), req.ToDomain())
	if err != nil {
		return err
	}

	return c.JSON(dto.ImageResolutionResponse{
		Image:      desc,
		NeedsImage: desc == nil,
	})
}

// ResolveBatch handles POST /api/images/resolve-batch. Every figure of a
// lesson resolves concurrently; results come back in request order.
func (h *ImageHandler) ResolveBatch(c *fiber.Ctx) error {
	var req dto.BatchImageResolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateBatchImageResolutionRequest(&req); len(errs) > 0 {
		return errs
	}

	reqs := make([]domain.ImageRequest, len(req.Figures))
	for i := range req.Figures {
		reqs[i] = req.Figures[i].ToDomain()
	}

	descs := h.images.ResolveAll(c.Context(), reqs)

	results := make([]dto.ImageResolutionResponse, len(descs))
	for i, desc := range descs {
		results[i] = dto.ImageResolutionResponse{Image: desc, NeedsImage: desc == nil}
	}
	return c.JSON(dto.BatchImageResolutionResponse{Results: results})
}
