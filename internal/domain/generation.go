package domain

import (
	"context"
	"time"
)

// Supported courses.
const (
	CourseNEETPG = "NEET PG"
	CourseUSMLE  = "USMLE"
)

// QuestionGenerator generates exam questions for one topic of a course.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, course, subject, topic string, numQuestions int) ([]ContentItem, error)
}

// QuestionSet is a persisted batch of generated questions.
type QuestionSet struct {
	ID        string        `json:"id"`
	Course    string        `json:"course"`
	Subject   string        `json:"subject"`
	Topics    []string      `json:"topics"`
	Questions []ContentItem `json:"questions"`
	CreatedAt time.Time     `json:"created_at"`
}

// QuestionSetRepository persists generated question sets.
type QuestionSetRepository interface {
	Save(ctx context.Context, set *QuestionSet) error
	GetByID(ctx context.Context, id string) (*QuestionSet, error)
	List(ctx context.Context, limit int) ([]*QuestionSet, error)
}
