package imagepipe

import (
	"context"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"go.uber.org/zap"
)

// maxSearchTerms bounds how many search terms are sent to any source.
const maxSearchTerms = 5

// CandidateCollector gathers candidates for the resolver.
type CandidateCollector interface {
	Collect(ctx context.Context, spec domain.SearchSpec) []domain.ImageDescriptor
}

// MultiSource queries every configured media source and pools the results.
// One failing source never fails the collection: its error is logged and the
// remaining sources are still consulted. Deduplication by URL happens
// opportunistically as entries are discovered, not as a final pass.
type MultiSource struct {
	sources       []domain.MediaSource
	maxCandidates int
	logger        *zap.Logger
}

func NewMultiSource(sources []domain.MediaSource, maxCandidates int, logger *zap.Logger) *MultiSource {
	if maxCandidates <= 0 {
		maxCandidates = 8
	}
	return &MultiSource{
		sources:       sources,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

func (m *MultiSource) Collect(ctx context.Context, spec domain.SearchSpec) []domain.ImageDescriptor {
	seen := make(map[string]bool)
	var candidates []domain.ImageDescriptor

	for _, source := range m.sources {
		found, err := source.Search(ctx, spec, m.maxCandidates)
		if err != nil {
			m.logger.Warn("Media source failed; continuing with remaining sources",
				zap.String("source", source.Name()),
				zap.Error(err),
			)
			continue
		}
		for _, c := range found {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			candidates = append(candidates, c)
			if len(candidates) == m.maxCandidates {
				return candidates
			}
		}
	}
	return candidates
}

var _ CandidateCollector = (*MultiSource)(nil)
