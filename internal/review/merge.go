package review

import (
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/util"
)

// MergeReport recombines reviewed items with pre-screened structural failures
// into a single report whose items are in original input order.
//
// total is the original item count. validIdx[i] is the original index of the
// i-th reviewed item; validators[i] and adversarials[i] are its two verdicts.
// failures maps original indices to pre-built structural-failure reviews.
func MergeReport(total int, validIdx []int, validators, adversarials []domain.Verdict, failures map[int]domain.ItemReview) *domain.BatchReport {
	items := make([]domain.ItemReview, total)

	for i, origIdx := range validIdx {
		items[origIdx] = buildItemReview(validators[i], adversarials[i])
	}
	for origIdx, failure := range failures {
		failure.Overall = computeOverall(failure.Validator, failure.Adversarial)
		items[origIdx] = failure
	}

	return &domain.BatchReport{
		Items:   items,
		Summary: summarize(items),
	}
}

func buildItemReview(validator, adversarial domain.Verdict) domain.ItemReview {
	if validator == nil {
		validator = domain.Verdict{}
	}
	if adversarial == nil {
		adversarial = domain.Verdict{}
	}
	return domain.ItemReview{
		Validator:   validator,
		Adversarial: adversarial,
		Overall:     computeOverall(validator, adversarial),
	}
}

// computeOverall derives the composite assessment:
// quality = (validator_score + (10 - adversarial_score)) / 2.
// An item whose both verdicts are empty was never successfully reviewed; it
// scores 0 and is flagged unverifiable rather than approved.
func computeOverall(validator, adversarial domain.Verdict) domain.OverallAssessment {
	if validator.Empty() && adversarial.Empty() {
		return domain.OverallAssessment{
			QualityScore: 0,
			Status:       domain.StatusNeedsRevision,
			Unverifiable: true,
		}
	}

	vScore := validator.Float(domain.VerdictAccuracyScore)
	aScore := adversarial.Float(domain.VerdictAdversarialScore)
	needsRevision := validator.Bool(domain.VerdictNeedsRevision)

	quality := (vScore + (10 - aScore)) / 2

	var status string
	switch {
	case quality >= 8 && !needsRevision:
		status = domain.StatusApproved
	case quality >= 6 && quality < 8:
		status = domain.StatusConditional
	default:
		status = domain.StatusNeedsRevision
	}

	return domain.OverallAssessment{
		QualityScore:      quality,
		Status:            status,
		StructuralFailure: validator.Bool(domain.VerdictStructuralFailure),
	}
}

func summarize(items []domain.ItemReview) domain.ReviewSummary {
	summary := domain.ReviewSummary{Total: len(items)}

	var sum float64
	for i := range items {
		overall := items[i].Overall
		sum += overall.QualityScore
		switch {
		case overall.Status == domain.StatusApproved:
			summary.Approved++
		case overall.Status == domain.StatusNeedsRevision:
			summary.NeedsRevision++
		}
		if overall.StructuralFailure {
			summary.StructuralFailures++
		}
	}
	if len(items) > 0 {
		summary.AvgQualityScore = util.Round2(sum / float64(len(items)))
	}
	return summary
}
