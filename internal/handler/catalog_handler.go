package handler

import (
	"net/url"

	"github.com/pkompalli/QBank-Generator/internal/catalog"
	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the course/subject/topic/chapter hierarchy
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Course names contain spaces ("NEET PG"), so path params arrive escaped.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.NewInvalidInputError("Invalid path parameter: " + name)
	}
	return value, nil
}

// GetSubjects handles GET /api/subjects/:course
func (h *CatalogHandler) GetSubjects(c *fiber.Ctx) error {
	course, err := pathParam(c, "course")
	if err != nil {
		return err
	}

	subjects, err := h.catalog.Subjects(course)
	if err != nil {
		return err
	}
	return c.JSON(subjects)
}

// GetTopics handles GET /api/topics/:course/:subject
func (h *CatalogHandler) GetTopics(c *fiber.Ctx) error {
	course, err := pathParam(c, "course")
	if err != nil {
		return err
	}
	subject, err := pathParam(c, "subject")
	if err != nil {
		return err
	}

	topics, err := h.catalog.Topics(course, subject)
	if err != nil {
		return err
	}
	return c.JSON(topics)
}

// GetChapters handles GET /api/chapters/:course/:subject/:topic
func (h *CatalogHandler) GetChapters(c *fiber.Ctx) error {
	course, err := pathParam(c, "course")
	if err != nil {
		return err
	}
	subject, err := pathParam(c, "subject")
	if err != nil {
		return err
	}
	topic, err := pathParam(c, "topic")
	if err != nil {
		return err
	}

	chapters, err := h.catalog.Chapters(course, subject, topic)
	if err != nil {
		return err
	}
	return c.JSON(chapters)
}
