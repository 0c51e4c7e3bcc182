// Package validation implements request validation for the HTTP API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/dto"
)

// maxReviewItems bounds a single review request. Larger batches should be
// split by the caller; the pipeline itself re-batches internally anyway.
const maxReviewItems = 200

// maxSearchTerms bounds an image resolution request.
const maxSearchTerms = 10

// maxBatchFigures bounds a batch resolution request. Lessons rarely carry
// more than a handful of figures.
const maxBatchFigures = 20

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateReviewRequest validates a content review request.
func (v *Validator) ValidateReviewRequest(req *dto.ReviewRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.ContentType) == "" {
		errors = append(errors, domain.NewMissingFieldError("content_type"))
	} else if !domain.ContentType(req.ContentType).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("content_type", req.ContentType))
	}

	if len(req.Items) == 0 {
		errors = append(errors, domain.NewMissingFieldError("items"))
	} else if len(req.Items) > maxReviewItems {
		errors = append(errors, domain.NewOutOfRangeError("items", len(req.Items), 1, maxReviewItems))
	}

	return errors
}

// ValidateImageResolutionRequest validates an image resolution request.
func (v *Validator) ValidateImageResolutionRequest(req *dto.ImageResolutionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.SearchTerms) == 0 {
		errors = append(errors, domain.NewMissingFieldError("search_terms"))
	} else if len(req.SearchTerms) > maxSearchTerms {
		errors = append(errors, domain.NewOutOfRangeError("search_terms", len(req.SearchTerms), 1, maxSearchTerms))
	}
	for _, term := range req.SearchTerms {
		if strings.TrimSpace(term) == "" {
			errors = append(errors, domain.NewInvalidFormatError("search_terms", term))
			break
		}
	}

	return errors
}

// ValidateBatchImageResolutionRequest validates a batch image resolution
// request; per-figure failures carry the offending figure's index.
func (v *Validator) ValidateBatchImageResolutionRequest(req *dto.BatchImageResolutionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Figures) == 0 {
		return append(errors, domain.NewMissingFieldError("figures"))
	}
	if len(req.Figures) > maxBatchFigures {
		return append(errors, domain.NewOutOfRangeError("figures", len(req.Figures), 1, maxBatchFigures))
	}

	for i := range req.Figures {
		for _, e := range v.ValidateImageResolutionRequest(&req.Figures[i]) {
			e.Field = fmt.Sprintf("figures[%d].%s", i, e.Field)
			errors = append(errors, e)
		}
	}
	return errors
}

// ValidateGenerationRequest validates a question generation request.
// Question-count bounds live in the service, close to the configuration that
// defines them.
func (v *Validator) ValidateGenerationRequest(req *dto.GenerationRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Course) == "" {
		errors = append(errors, domain.NewMissingFieldError("course"))
	}
	if strings.TrimSpace(req.Subject) == "" {
		errors = append(errors, domain.NewMissingFieldError("subject"))
	}
	if len(req.Topics) == 0 {
		errors = append(errors, domain.NewMissingFieldError("topics"))
	}

	return errors
}

// ValidateQuestionSetID validates a question set identifier.
func (v *Validator) ValidateQuestionSetID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
