package domain

import "context"

// Review statuses derived from the composite quality score.
const (
	StatusApproved      = "Approved"
	StatusConditional   = "Conditional"
	StatusNeedsRevision = "Needs Revision"
)

// Verdict is one review pass's judgement of one item, as returned by the
// model. The schema is intentionally loose: validator and adversarial passes
// return different fields, lesson and question reviews return different
// error lists, and a failed extraction degrades to an empty (never nil)
// verdict.
type Verdict map[string]any

// Well-known verdict fields read by the merger.
const (
	VerdictAccuracyScore     = "accuracy_score"
	VerdictAdversarialScore  = "adversarial_score"
	VerdictNeedsRevision     = "needs_revision"
	VerdictStructuralFailure = "structural_failure"
	VerdictSkipped           = "skipped"
)

// Float reads a numeric field, tolerating the JSON number representations a
// model is likely to produce.
func (v Verdict) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Bool reads a boolean field, defaulting to false.
func (v Verdict) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Empty reports whether the verdict carries no data (extraction failure).
func (v Verdict) Empty() bool {
	return len(v) == 0
}

// OverallAssessment is the derived per-item result combining both passes.
type OverallAssessment struct {
	QualityScore      float64 `json:"quality_score"`
	Status            string  `json:"status"`
	StructuralFailure bool    `json:"structural_failure,omitempty"`
	Unverifiable      bool    `json:"unverifiable,omitempty"`
}

// ItemReview pairs the two pass verdicts with the derived assessment. Both
// verdict maps are always present, possibly empty.
type ItemReview struct {
	Validator   Verdict           `json:"validator"`
	Adversarial Verdict           `json:"adversarial"`
	Overall     OverallAssessment `json:"overall_assessment"`
}

// ReviewSummary aggregates a batch report.
type ReviewSummary struct {
	Total              int     `json:"total"`
	Approved           int     `json:"approved"`
	NeedsRevision      int     `json:"needs_revision"`
	StructuralFailures int     `json:"structural_failures"`
	AvgQualityScore    float64 `json:"avg_quality_score"`
}

// BatchReport is the final output of a review request. Items[i] corresponds
// to the i-th input item, regardless of batching or completion order.
type BatchReport struct {
	Items   []ItemReview  `json:"items"`
	Summary ReviewSummary `json:"summary"`
}

// ContentReviewer is the port for the full review pipeline: pre-screening,
// batched dual-pass LLM review, and merging.
type ContentReviewer interface {
	Review(ctx context.Context, contentType ContentType, items []ContentItem, domainLabel, course string) (*BatchReport, error)
}
