package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/jmoiron/sqlx"
)

// questionSetModel is the database row shape. Questions and topics are
// serialized to JSON text; SQLite has no array type and the payload is only
// ever read back whole.
type questionSetModel struct {
	ID        string    `db:"id"`
	Course    string    `db:"course"`
	Subject   string    `db:"subject"`
	Topics    string    `db:"topics"`
	Questions string    `db:"questions"`
	CreatedAt time.Time `db:"created_at"`
}

const createQuestionSetsTable = `
CREATE TABLE IF NOT EXISTS question_sets (
	id TEXT PRIMARY KEY,
	course TEXT NOT NULL,
	subject TEXT NOT NULL,
	topics TEXT NOT NULL,
	questions TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// QuestionSetDatabaseAdapter persists generated question sets in SQLite.
type QuestionSetDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionSetDatabaseAdapter creates the adapter and ensures the schema
// exists.
func NewQuestionSetDatabaseAdapter(db *sqlx.DB) (domain.QuestionSetRepository, error) {
	if _, err := db.Exec(createQuestionSetsTable); err != nil {
		return nil, fmt.Errorf("failed to create question_sets table: %w", err)
	}
	return &QuestionSetDatabaseAdapter{db: db}, nil
}

func (r *QuestionSetDatabaseAdapter) Save(ctx context.Context, set *domain.QuestionSet) error {
	model, err := toModel(set)
	if err != nil {
		return err
	}

	query := `INSERT INTO question_sets (id, course, subject, topics, questions, created_at)
              VALUES (:id, :course, :subject, :topics, :questions, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save question set %s: %w", set.ID, err)
	}
	return nil
}

func (r *QuestionSetDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.QuestionSet, error) {
	var model questionSetModel
	query := `SELECT id, course, subject, topics, questions, created_at FROM question_sets WHERE id = ?`
	if err := r.db.GetContext(ctx, &model, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewQuestionSetNotFoundError(id)
		}
		return nil, err
	}
	return toDomain(&model)
}

func (r *QuestionSetDatabaseAdapter) List(ctx context.Context, limit int) ([]*domain.QuestionSet, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []questionSetModel
	query := `SELECT id, course, subject, topics, questions, created_at FROM question_sets ORDER BY created_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &models, query, limit); err != nil {
		if err == sql.ErrNoRows {
			return []*domain.QuestionSet{}, nil
		}
		return nil, err
	}

	sets := make([]*domain.QuestionSet, len(models))
	for i := range models {
		set, err := toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}
	return sets, nil
}

func toModel(set *domain.QuestionSet) (*questionSetModel, error) {
	topics, err := json.Marshal(set.Topics)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize topics: %w", err)
	}
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize questions: %w", err)
	}
	return &questionSetModel{
		ID:        set.ID,
		Course:    set.Course,
		Subject:   set.Subject,
		Topics:    string(topics),
		Questions: string(questions),
		CreatedAt: set.CreatedAt,
	}, nil
}

func toDomain(model *questionSetModel) (*domain.QuestionSet, error) {
	set := &domain.QuestionSet{
		ID:        model.ID,
		Course:    model.Course,
		Subject:   model.Subject,
		CreatedAt: model.CreatedAt,
	}
	if err := json.Unmarshal([]byte(model.Topics), &set.Topics); err != nil {
		return nil, fmt.Errorf("corrupt topics payload for set %s: %w", model.ID, err)
	}
	if err := json.Unmarshal([]byte(model.Questions), &set.Questions); err != nil {
		return nil, fmt.Errorf("corrupt questions payload for set %s: %w", model.ID, err)
	}
	return set, nil
}
