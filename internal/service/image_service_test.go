package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubResolver struct {
	mu    sync.Mutex
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	term := req.SearchTerms[0]
	switch {
	case strings.HasPrefix(term, "fail"):
		return nil, errors.New("source down")
	case strings.HasPrefix(term, "none"):
		return nil, nil
	}
	return &domain.ImageDescriptor{URL: "https://img.example/" + term + ".png", SourceName: "openi"}, nil
}

func TestImageService_Resolve(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewImageService(resolver, zap.NewNop())

	desc, err := svc.Resolve(context.Background(), domain.ImageRequest{
		SearchSpec: domain.SearchSpec{SearchTerms: []string{"pneumothorax"}},
	})

	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, "https://img.example/pneumothorax.png", desc.URL)
}

func TestImageService_ResolveRequiresTerms(t *testing.T) {
	svc := NewImageService(&stubResolver{}, zap.NewNop())

	_, err := svc.Resolve(context.Background(), domain.ImageRequest{})

	assert.Error(t, err)
}

func TestImageService_ResolveAllIsIndexAddressed(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewImageService(resolver, zap.NewNop())

	reqs := []domain.ImageRequest{
		{SearchSpec: domain.SearchSpec{SearchTerms: []string{"first"}}},
		{SearchSpec: domain.SearchSpec{SearchTerms: []string{"fail-second"}}},
		{SearchSpec: domain.SearchSpec{SearchTerms: []string{"none-third"}}},
		{SearchSpec: domain.SearchSpec{SearchTerms: []string{"fourth"}}},
	}

	results := svc.ResolveAll(context.Background(), reqs)

	require.Len(t, results, 4)
	require.NotNil(t, results[0])
	assert.Equal(t, "https://img.example/first.png", results[0].URL)
	assert.Nil(t, results[1], "failed figure leaves a nil slot")
	assert.Nil(t, results[2], "unresolvable figure leaves a nil slot")
	require.NotNil(t, results[3])
	assert.Equal(t, "https://img.example/fourth.png", results[3].URL)
	assert.Equal(t, 4, resolver.calls)
}
