package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/catalog"
	"github.com/pkompalli/QBank-Generator/internal/config"
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/dto"
	"github.com/pkompalli/QBank-Generator/internal/handler"
	"github.com/pkompalli/QBank-Generator/internal/middleware"
	"github.com/pkompalli/QBank-Generator/internal/service"
	"github.com/pkompalli/QBank-Generator/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Manual Mocks ---

type MockReviewer struct {
	ReviewFunc func(ctx context.Context, contentType domain.ContentType, items []domain.ContentItem, domainLabel, course string) (*domain.BatchReport, error)
}

func (m *MockReviewer) Review(ctx context.Context, contentType domain.ContentType, items []domain.ContentItem, domainLabel, course string) (*domain.BatchReport, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, contentType, items, domainLabel, course)
	}
	panic("MockReviewer.ReviewFunc not implemented")
}

type MockResolver struct {
	ResolveFunc func(ctx context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error)
}

func (m *MockResolver) Resolve(ctx context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, req)
	}
	panic("MockResolver.ResolveFunc not implemented")
}

type MockGenerator struct {
	GenerateQuestionsFunc func(ctx context.Context, course, subject, topic string, numQuestions int) ([]domain.ContentItem, error)
}

func (m *MockGenerator) GenerateQuestions(ctx context.Context, course, subject, topic string, numQuestions int) ([]domain.ContentItem, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, course, subject, topic, numQuestions)
	}
	panic("MockGenerator.GenerateQuestionsFunc not implemented")
}

type MockRepo struct {
	sets map[string]*domain.QuestionSet
}

func (m *MockRepo) Save(_ context.Context, set *domain.QuestionSet) error {
	if m.sets == nil {
		m.sets = map[string]*domain.QuestionSet{}
	}
	m.sets[set.ID] = set
	return nil
}

func (m *MockRepo) GetByID(_ context.Context, id string) (*domain.QuestionSet, error) {
	if set, ok := m.sets[id]; ok {
		return set, nil
	}
	return nil, domain.NewQuestionSetNotFoundError(id)
}

func (m *MockRepo) List(_ context.Context, _ int) ([]*domain.QuestionSet, error) {
	var sets []*domain.QuestionSet
	for _, set := range m.sets {
		sets = append(sets, set)
	}
	return sets, nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

// --- Review handler ---

func TestReviewHandler_Review(t *testing.T) {
	reviewer := &MockReviewer{
		ReviewFunc: func(_ context.Context, contentType domain.ContentType, items []domain.ContentItem, domainLabel, course string) (*domain.BatchReport, error) {
			assert.Equal(t, domain.ContentTypeQBank, contentType)
			assert.Equal(t, "radiology", domainLabel)
			reviews := make([]domain.ItemReview, len(items))
			for i := range reviews {
				reviews[i] = domain.ItemReview{
					Validator:   domain.Verdict{domain.VerdictAccuracyScore: 9.0},
					Adversarial: domain.Verdict{domain.VerdictAdversarialScore: 1.0},
					Overall:     domain.OverallAssessment{QualityScore: 9.0, Status: "Approved"},
				}
			}
			return &domain.BatchReport{
				Items:   reviews,
				Summary: domain.ReviewSummary{Total: len(items), Approved: len(items), AvgQualityScore: 9.0},
			}, nil
		},
	}

	app := newTestApp()
	app.Post("/api/review", handler.NewReviewHandler(reviewer).Review)

	status, body := postJSON(t, app, "/api/review", dto.ReviewRequest{
		ContentType: "qbank",
		Items:       []domain.ContentItem{{Question: "q?"}},
		Domain:      "radiology",
	})

	require.Equal(t, fiber.StatusOK, status)
	var resp dto.ReviewResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 1, resp.Summary.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Approved", resp.Items[0].Overall.Status)
}

func TestReviewHandler_ValidationFailure(t *testing.T) {
	app := newTestApp()
	app.Post("/api/review", handler.NewReviewHandler(&MockReviewer{}).Review)

	status, body := postJSON(t, app, "/api/review", dto.ReviewRequest{ContentType: "podcast"})

	require.Equal(t, fiber.StatusBadRequest, status)
	var resp middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeValidation), resp.Code)
	assert.Len(t, resp.Errors, 2)
}

// --- Image handler ---

func TestImageHandler_Resolve(t *testing.T) {
	resolver := &MockResolver{
		ResolveFunc: func(_ context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
			assert.Equal(t, []string{"pneumothorax"}, req.SearchTerms)
			return &domain.ImageDescriptor{URL: "https://img.example/a.png", SourceName: "openi"}, nil
		},
	}
	app := newTestApp()
	svc := service.NewImageService(resolver, zap.NewNop())
	app.Post("/api/images/resolve", handler.NewImageHandler(svc).Resolve)

	status, body := postJSON(t, app, "/api/images/resolve", dto.ImageResolutionRequest{
		SearchTerms: []string{"pneumothorax"},
		Modality:    "xray",
	})

	require.Equal(t, fiber.StatusOK, status)
	var resp dto.ImageResolutionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Image)
	assert.False(t, resp.NeedsImage)
}

func TestImageHandler_NothingResolved(t *testing.T) {
	resolver := &MockResolver{
		ResolveFunc: func(_ context.Context, _ domain.ImageRequest) (*domain.ImageDescriptor, error) {
			return nil, nil
		},
	}
	app := newTestApp()
	svc := service.NewImageService(resolver, zap.NewNop())
	app.Post("/api/images/resolve", handler.NewImageHandler(svc).Resolve)

	status, body := postJSON(t, app, "/api/images/resolve", dto.ImageResolutionRequest{SearchTerms: []string{"rare"}})

	require.Equal(t, fiber.StatusOK, status)
	var resp dto.ImageResolutionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Nil(t, resp.Image)
	assert.True(t, resp.NeedsImage)
}

func TestImageHandler_ResolveBatch(t *testing.T) {
	resolver := &MockResolver{
		ResolveFunc: func(_ context.Context, req domain.ImageRequest) (*domain.ImageDescriptor, error) {
			if req.SearchTerms[0] == "unfindable" {
				return nil, nil
			}
			return &domain.ImageDescriptor{URL: "https://img.example/" + req.SearchTerms[0] + ".png", SourceName: "openi"}, nil
		},
	}
	app := newTestApp()
	svc := service.NewImageService(resolver, zap.NewNop())
	app.Post("/api/images/resolve-batch", handler.NewImageHandler(svc).ResolveBatch)

	status, body := postJSON(t, app, "/api/images/resolve-batch", dto.BatchImageResolutionRequest{
		Figures: []dto.ImageResolutionRequest{
			{SearchTerms: []string{"pneumothorax"}, Modality: "xray"},
			{SearchTerms: []string{"unfindable"}},
			{SearchTerms: []string{"effusion"}, Modality: "xray"},
		},
	})

	require.Equal(t, fiber.StatusOK, status)
	var resp dto.BatchImageResolutionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Results, 3)

	require.NotNil(t, resp.Results[0].Image)
	assert.Equal(t, "https://img.example/pneumothorax.png", resp.Results[0].Image.URL)
	assert.True(t, resp.Results[1].NeedsImage)
	assert.Nil(t, resp.Results[1].Image)
	require.NotNil(t, resp.Results[2].Image)
	assert.Equal(t, "https://img.example/effusion.png", resp.Results[2].Image.URL)
}

func TestImageHandler_ResolveBatchEmptyFigures(t *testing.T) {
	app := newTestApp()
	svc := service.NewImageService(&MockResolver{}, zap.NewNop())
	app.Post("/api/images/resolve-batch", handler.NewImageHandler(svc).ResolveBatch)

	status, _ := postJSON(t, app, "/api/images/resolve-batch", dto.BatchImageResolutionRequest{})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestImageHandler_MissingTerms(t *testing.T) {
	app := newTestApp()
	svc := service.NewImageService(&MockResolver{}, zap.NewNop())
	app.Post("/api/images/resolve", handler.NewImageHandler(svc).Resolve)

	status, _ := postJSON(t, app, "/api/images/resolve", dto.ImageResolutionRequest{})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

// --- Generation handler ---

func newGenerationApp(gen domain.QuestionGenerator, repo domain.QuestionSetRepository) *fiber.App {
	svc := service.NewGenerationService(gen, repo, config.GenerationConfig{MinQuestions: 5, MaxQuestions: 50}, zap.NewNop())
	h := handler.NewGenerationHandler(svc)
	app := newTestApp()
	app.Post("/api/generate", h.Generate)
	app.Get("/api/question-sets", h.ListQuestionSets)
	app.Get("/api/question-sets/:id", h.GetQuestionSet)
	return app
}

func TestGenerationHandler_Generate(t *testing.T) {
	gen := &MockGenerator{
		GenerateQuestionsFunc: func(_ context.Context, course, subject, topic string, numQuestions int) ([]domain.ContentItem, error) {
			assert.Equal(t, domain.CourseNEETPG, course)
			assert.Equal(t, 10, numQuestions)
			return make([]domain.ContentItem, numQuestions), nil
		},
	}
	app := newGenerationApp(gen, &MockRepo{})

	status, body := postJSON(t, app, "/api/generate", dto.GenerationRequest{
		Course:       domain.CourseNEETPG,
		Subject:      "Medicine",
		Topics:       []string{"Cardiology", "Respiratory System"},
		NumQuestions: 10,
	})

	require.Equal(t, fiber.StatusOK, status)
	var resp dto.GenerationResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SetID)
	assert.Equal(t, 20, resp.Count)
	assert.Equal(t, 2, resp.TopicsCount)
}

func TestGenerationHandler_OutOfRangeCount(t *testing.T) {
	app := newGenerationApp(&MockGenerator{}, &MockRepo{})

	status, _ := postJSON(t, app, "/api/generate", dto.GenerationRequest{
		Course:       domain.CourseNEETPG,
		Subject:      "Medicine",
		Topics:       []string{"Cardiology"},
		NumQuestions: 100,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGenerationHandler_GetQuestionSet(t *testing.T) {
	repo := &MockRepo{}
	set := &domain.QuestionSet{
		ID:        util.NewULID(),
		Course:    domain.CourseUSMLE,
		Subject:   "Pathology",
		Topics:    []string{"Neoplasia"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(context.Background(), set))
	app := newGenerationApp(&MockGenerator{}, repo)

	req := httptest.NewRequest(fiber.MethodGet, "/api/question-sets/"+set.ID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/question-sets/"+util.NewULID(), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/question-sets/not-a-ulid", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// --- Catalog handler ---

func newCatalogApp(t *testing.T) *fiber.App {
	t.Helper()
	c, err := catalog.Load(map[string]string{
		domain.CourseNEETPG: filepath.Join("..", "catalog", "testdata", "neet_subjects.json"),
	})
	require.NoError(t, err)
	h := handler.NewCatalogHandler(c)
	app := newTestApp()
	app.Get("/api/subjects/:course", h.GetSubjects)
	app.Get("/api/topics/:course/:subject", h.GetTopics)
	app.Get("/api/chapters/:course/:subject/:topic", h.GetChapters)
	return app
}

func TestCatalogHandler(t *testing.T) {
	app := newCatalogApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/subjects/NEET%20PG", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var subjects []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subjects))
	assert.Equal(t, []string{"Anatomy", "Medicine"}, subjects)

	req = httptest.NewRequest(fiber.MethodGet, "/api/topics/NEET%20PG/Medicine", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var topics []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&topics))
	assert.Equal(t, []string{"Cardiology", "Respiratory System"}, topics)

	req = httptest.NewRequest(fiber.MethodGet, "/api/subjects/MCAT", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/topics/NEET%20PG/Astrology", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
