package service

import (
	"context"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/config"
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/util"

	"go.uber.org/zap"
)

// GenerationService generates question sets topic by topic and persists the
// combined set.
type GenerationService struct {
	generator domain.QuestionGenerator
	repo      domain.QuestionSetRepository
	cfg       config.GenerationConfig
	logger    *zap.Logger
}

func NewGenerationService(generator domain.QuestionGenerator, repo domain.QuestionSetRepository, cfg config.GenerationConfig, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		repo:      repo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate produces numQuestions questions for each topic and saves them as
// one question set. Any single topic failing fails the whole request; a
// partial set would silently under-deliver.
func (s *GenerationService) Generate(ctx context.Context, course, subject string, topics []string, numQuestions int) (*domain.QuestionSet, error) {
	if course != domain.CourseNEETPG && course != domain.CourseUSMLE {
		return nil, domain.NewInvalidCourseError(course)
	}
	if subject == "" {
		return nil, domain.NewInvalidInputError("Subject is required")
	}
	if len(topics) == 0 {
		return nil, domain.NewInvalidInputError("At least one topic is required")
	}
	if numQuestions < s.cfg.MinQuestions || numQuestions > s.cfg.MaxQuestions {
		return nil, domain.ValidationErrors{
			domain.NewOutOfRangeError("num_questions", numQuestions, s.cfg.MinQuestions, s.cfg.MaxQuestions),
		}
	}

	var all []domain.ContentItem
	for _, topic := range topics {
		questions, err := s.generator.GenerateQuestions(ctx, course, subject, topic, numQuestions)
		if err != nil {
			return nil, err
		}
		all = append(all, questions...)
	}

	set := &domain.QuestionSet{
		ID:        util.NewULID(),
		Course:    course,
		Subject:   subject,
		Topics:    topics,
		Questions: all,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, set); err != nil {
		return nil, domain.NewInternalError("Failed to persist question set", err)
	}

	s.logger.Info("Question set generated",
		zap.String("id", set.ID),
		zap.String("course", course),
		zap.String("subject", subject),
		zap.Int("topics", len(topics)),
		zap.Int("questions", len(all)),
	)
	return set, nil
}

// GetQuestionSet returns a previously generated set by ID.
func (s *GenerationService) GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("Question set ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListQuestionSets returns the most recent sets.
func (s *GenerationService) ListQuestionSets(ctx context.Context, limit int) ([]*domain.QuestionSet, error) {
	return s.repo.List(ctx, limit)
}
