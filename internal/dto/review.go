// Package dto defines the request and response shapes of the HTTP API.
package dto

import "github.com/pkompalli/QBank-Generator/internal/domain"

// ReviewRequest asks for a full review of a batch of content items.
type ReviewRequest struct {
	ContentType string               `json:"content_type"`
	Items       []domain.ContentItem `json:"items"`
	// Domain names the medical field the reviewers should reason in, e.g.
	// "radiology". Falls back to the course, then to "medicine".
	Domain string `json:"domain,omitempty"`
	Course string `json:"course,omitempty"`
}

// ReviewResponse returns the merged report, items in request order.
type ReviewResponse struct {
	Items   []domain.ItemReview  `json:"items"`
	Summary domain.ReviewSummary `json:"summary"`
}

// ErrorResponse is the generic error payload for handler-level rejections.
type ErrorResponse struct {
	Error string `json:"error"`
}
