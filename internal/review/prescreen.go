package review

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"go.uber.org/zap"
)

// Pre-screen verdict constants. A structurally broken item gets a fixed low
// validator score and a sentinel adversarial verdict; it never reaches the
// model.
const (
	structuralFailureScore = 2.0
	// The sentinel adversarial score marks the item as maximally breakable,
	// which keeps the quality formula uniform across real and skipped passes.
	structuralSentinelAdversarialScore = 10.0
)

// spatialRefPattern matches phrasing that references a visual asset. Kept as
// a documented heuristic: whole-phrase matches on the forms that appear in
// question vignettes and lesson sections.
var spatialRefPattern = regexp.MustCompile(`(?i)\b(shown below|shown above|in the (?:image|figure|photograph|picture|scan)|based on the (?:scan|image|figure|radiograph|x-ray)|(?:see|refer to) the (?:image|figure)|the (?:image|figure|radiograph|scan) (?:below|above)|accompanying (?:image|figure))\b`)

// PreScreener disqualifies question items whose required image is
// structurally missing, before any model call is spent on them. Content
// review of an item whose visual asset is absent would waste a call and
// produce a misleadingly specific critique. Lesson sections are not screened:
// their embedded figures are surfaced to the model inside the review payload,
// with placeholders for anything missing.
type PreScreener struct {
	logger *zap.Logger
}

func NewPreScreener(logger *zap.Logger) *PreScreener {
	return &PreScreener{logger: logger}
}

// Screen partitions items into survivors (with their original indices) and
// structural failures keyed by original index.
func (p *PreScreener) Screen(items []domain.ContentItem) (valid []domain.ContentItem, validIdx []int, failures map[int]domain.ItemReview) {
	failures = make(map[int]domain.ItemReview)

	for i := range items {
		item := &items[i]
		if reason, failed := p.structuralDefect(item); failed {
			p.logger.Info("Item disqualified by pre-screen",
				zap.Int("index", i),
				zap.String("reason", reason),
			)
			failures[i] = structuralFailureReview(reason)
			continue
		}
		valid = append(valid, *item)
		validIdx = append(validIdx, i)
	}
	return valid, validIdx, failures
}

// structuralDefect reports whether the item references an image it cannot
// provide. Remote handles are assumed reachable without a network check;
// local handles are stat'ed.
func (p *PreScreener) structuralDefect(item *domain.ContentItem) (string, bool) {
	referencesImage := item.ImageURL != "" || spatialRefPattern.MatchString(item.Text())
	if !referencesImage {
		return "", false
	}

	if item.ImageURL == "" {
		return "text references an image but no image handle is set", true
	}
	if isRemoteRef(item.ImageURL) {
		return "", false
	}
	if _, err := os.Stat(item.ImageURL); err != nil {
		return fmt.Sprintf("local image %s is not accessible", item.ImageURL), true
	}
	return "", false
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func structuralFailureReview(reason string) domain.ItemReview {
	return domain.ItemReview{
		Validator: domain.Verdict{
			domain.VerdictAccuracyScore:     structuralFailureScore,
			domain.VerdictNeedsRevision:     true,
			domain.VerdictStructuralFailure: true,
			"summary":                       "Structural failure: " + reason + ". Content review bypassed.",
		},
		Adversarial: domain.Verdict{
			domain.VerdictSkipped:          true,
			domain.VerdictAdversarialScore: structuralSentinelAdversarialScore,
			"summary":                      "Adversarial pass skipped: required image unavailable.",
		},
	}
}
