// Package service composes the pipeline stages into the operations the
// handlers and CLI expose.
package service

import (
	"context"
	"fmt"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/review"

	"go.uber.org/zap"
)

// ReviewService runs the full content review pipeline: structural
// pre-screening, batched dual-pass LLM review, and merging into a single
// ordered report.
type ReviewService struct {
	prescreener *review.PreScreener
	reviewer    *review.BatchReviewer
	logger      *zap.Logger
}

func NewReviewService(prescreener *review.PreScreener, reviewer *review.BatchReviewer, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		prescreener: prescreener,
		reviewer:    reviewer,
		logger:      logger,
	}
}

func (s *ReviewService) Review(ctx context.Context, contentType domain.ContentType, items []domain.ContentItem, domainLabel, course string) (*domain.BatchReport, error) {
	if !contentType.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("Unsupported content type: %s", contentType))
	}
	if len(items) == 0 {
		return nil, domain.NewInvalidInputError("No items to review")
	}

	if domainLabel == "" {
		domainLabel = course
	}
	if domainLabel == "" {
		domainLabel = "medicine"
	}

	// Only question items are pre-screened. Lesson sections carry their
	// figures as embedded refs; a declared-but-missing figure surfaces as a
	// placeholder inside the review payload instead of a disqualification.
	valid, validIdx, failures := items, make([]int, len(items)), map[int]domain.ItemReview{}
	for i := range items {
		validIdx[i] = i
	}
	if contentType == domain.ContentTypeQBank {
		valid, validIdx, failures = s.prescreener.Screen(items)
		s.logger.Info("Pre-screen complete",
			zap.Int("total", len(items)),
			zap.Int("survivors", len(valid)),
			zap.Int("structural_failures", len(failures)),
		)
	}

	validators, adversarials := s.reviewer.ReviewItems(ctx, contentType, valid, domainLabel)

	report := review.MergeReport(len(items), validIdx, validators, adversarials, failures)
	s.logger.Info("Review complete",
		zap.Int("total", report.Summary.Total),
		zap.Int("approved", report.Summary.Approved),
		zap.Int("needs_revision", report.Summary.NeedsRevision),
		zap.Float64("avg_quality", report.Summary.AvgQualityScore),
	)
	return report, nil
}

var _ domain.ContentReviewer = (*ReviewService)(nil)
