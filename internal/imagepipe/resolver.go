package imagepipe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/cache"
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/util"

	"go.uber.org/zap"
)

// Resolver runs the full image resolution state machine:
//
//	cache check → candidate collection → sequential scoring → best selection
//	→ generative fallback below threshold → optional annotation → cache write.
//
// Every external dependency is injected; generator and annotator may be nil,
// in which case those stages are skipped.
type Resolver struct {
	cache     domain.Cache
	collector CandidateCollector
	scorer    domain.VisionScorer
	generator domain.ImageGenerator
	annotator domain.Annotator
	fetcher   *Fetcher
	mediaDir  string
	threshold int
	logger    *zap.Logger
}

func NewResolver(
	c domain.Cache,
	collector CandidateCollector,
	scorer domain.VisionScorer,
	generator domain.ImageGenerator,
	annotator domain.Annotator,
	fetcher *Fetcher,
	mediaDir string,
	threshold int,
	logger *zap.Logger,
) *Resolver {
	if threshold <= 0 {
		threshold = 80
	}
	return &Resolver{
		cache:     c,
		collector: collector,
		scorer:    scorer,
		generator: generator,
		annotator: annotator,
		fetcher:   fetcher,
		mediaDir:  mediaDir,
		threshold: threshold,
		logger:    logger,
	}
}

// Resolve returns the best image for the request, or (nil, nil) when nothing
// could be resolved. Failures inside the pipeline degrade; they never abort
// the request.
func (r *Resolver) Resolve(ctx context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
	key := cache.ImageKey(req.SearchSpec)

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var desc domain.ImageDescriptor
		if err := json.Unmarshal([]byte(cached), &desc); err == nil {
			r.logger.Debug("Image cache hit", zap.String("key", key))
			return &desc, nil
		}
		r.logger.Warn("Discarding corrupt image cache entry", zap.String("key", key))
	} else if err != domain.ErrCacheMiss {
		r.logger.Warn("Image cache read failed; resolving fresh", zap.Error(err))
	}

	candidates := r.collector.Collect(ctx, req.SearchSpec)

	if len(candidates) == 0 {
		generated := r.generate(ctx, req)
		if generated == nil {
			return nil, nil
		}
		chosen := r.annotateIfNeeded(ctx, *generated, req.SourceText)
		r.writeCache(ctx, key, chosen)
		return &chosen, nil
	}

	best := r.scoreAll(ctx, req, candidates)

	var chosen domain.ImageDescriptor
	lastResort := false
	switch {
	case best.Score >= r.threshold:
		chosen = best.ImageDescriptor
	default:
		if generated := r.generate(ctx, req); generated != nil {
			chosen = *generated
		} else {
			// Something is better than nothing; the caller sees the low
			// score unmodified via the cached descriptor's provenance.
			r.logger.Warn("Generative fallback unavailable; using best candidate below threshold",
				zap.Int("score", best.Score),
				zap.Int("threshold", r.threshold),
			)
			chosen = best.ImageDescriptor
			lastResort = true
		}
	}

	if !lastResort {
		chosen = r.annotateIfNeeded(ctx, chosen, req.SourceText)
	}
	r.writeCache(ctx, key, chosen)
	return &chosen, nil
}

// scoreAll grades candidates sequentially in discovered order and keeps the
// arg-max. Scoring one candidate at a time is a deliberate latency/burst
// trade-off against the vision API.
func (r *Resolver) scoreAll(ctx context.Context, req domain.ImageRequest, candidates []domain.ImageDescriptor) domain.ScoredCandidate {
	best := domain.ScoredCandidate{Score: -1}
	for _, candidate := range candidates {
		scored, err := r.scorer.Score(ctx, candidate, req.SourceText, req.DescriptionHint)
		if err != nil {
			r.logger.Warn("Vision scoring failed for candidate; skipping",
				zap.String("url", candidate.URL),
				zap.Error(err),
			)
			continue
		}
		r.logger.Debug("Candidate scored",
			zap.String("url", candidate.URL),
			zap.Int("score", scored.Score),
			zap.String("rationale", scored.Rationale),
		)
		if scored.Score > best.Score {
			best = scored
		}
	}
	if best.Score < 0 {
		best = domain.ScoredCandidate{ImageDescriptor: candidates[0], Score: 0, Rationale: "no candidate could be scored"}
	}
	return best
}

func (r *Resolver) generate(ctx context.Context, req domain.ImageRequest) *domain.ImageDescriptor {
	if r.generator == nil {
		return nil
	}
	generated, err := r.generator.Generate(ctx, req.SearchSpec, req.SourceText)
	if err != nil {
		r.logger.Warn("Generative fallback failed", zap.Error(err))
		return nil
	}
	return generated
}

// annotateIfNeeded draws a marker when the source text contains a spatial
// callout. Any failure leaves the image untouched.
func (r *Resolver) annotateIfNeeded(ctx context.Context, desc domain.ImageDescriptor, sourceText string) domain.ImageDescriptor {
	if r.annotator == nil || !NeedsAnnotation(sourceText) {
		return desc
	}

	data, _, err := r.fetcher.Fetch(ctx, desc.URL)
	if err != nil {
		r.logger.Warn("Annotation skipped: could not fetch chosen image", zap.Error(err))
		return desc
	}
	annotated, err := r.annotator.Annotate(ctx, data, sourceText)
	if err != nil {
		r.logger.Warn("Annotation skipped", zap.Error(err))
		return desc
	}

	path, err := r.saveMedia(annotated)
	if err != nil {
		r.logger.Warn("Annotation skipped: could not persist annotated copy", zap.Error(err))
		return desc
	}
	desc.URL = path
	return desc
}

func (r *Resolver) saveMedia(data []byte) (string, error) {
	if err := os.MkdirAll(r.mediaDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.mediaDir, util.NewULID()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// writeCache records the resolution. Concurrent writers for the same key race
// last-writer-wins; entries are idempotent re-derivations, so that is fine.
func (r *Resolver) writeCache(ctx context.Context, key string, desc domain.ImageDescriptor) {
	data, err := json.Marshal(desc)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, string(data), time.Duration(0)); err != nil {
		r.logger.Warn("Image cache write failed", zap.String("key", key), zap.Error(err))
	}
}

var _ domain.ImageResolver = (*Resolver)(nil)
