package service

import (
	"context"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImageService fronts the image resolution pipeline for handlers and for
// bulk lesson integration.
type ImageService struct {
	resolver domain.ImageResolver
	logger   *zap.Logger
}

func NewImageService(resolver domain.ImageResolver, logger *zap.Logger) *ImageService {
	return &ImageService{resolver: resolver, logger: logger}
}

// Resolve resolves a single image request. A nil descriptor with nil error
// means nothing usable could be found or generated.
func (s *ImageService) Resolve(ctx context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
	if len(req.SearchTerms) == 0 {
		return nil, domain.NewInvalidInputError("Image request needs at least one search term")
	}
	return s.resolver.Resolve(ctx, req)
}

// ResolveAll resolves every request concurrently, one worker per figure.
// Results are index-addressed against the input; a figure that fails or
// resolves to nothing leaves a nil slot rather than failing the set.
func (s *ImageService) ResolveAll(ctx context.Context, reqs []domain.ImageRequest) []*domain.ImageDescriptor {
	results := make([]*domain.ImageDescriptor, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range reqs {
		idx := i
		g.Go(func() error {
			desc, err := s.resolver.Resolve(gctx, reqs[idx])
			if err != nil {
				s.logger.Warn("Figure resolution failed",
					zap.Int("index", idx),
					zap.Strings("terms", reqs[idx].SearchTerms),
					zap.Error(err),
				)
				return nil
			}
			results[idx] = desc
			return nil
		})
	}
	g.Wait()

	return results
}
