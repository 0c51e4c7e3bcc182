package dto

import "github.com/pkompalli/QBank-Generator/internal/domain"

// GenerationRequest asks for numQuestions MCQs per topic.
type GenerationRequest struct {
	Course       string   `json:"course"`
	Subject      string   `json:"subject"`
	Topics       []string `json:"topics"`
	NumQuestions int      `json:"num_questions"`
}

// GenerationResponse returns the persisted question set.
type GenerationResponse struct {
	Success     bool                 `json:"success"`
	SetID       string               `json:"set_id"`
	Questions   []domain.ContentItem `json:"questions"`
	Count       int                  `json:"count"`
	TopicsCount int                  `json:"topics_count"`
}

// QuestionSetSummary is the list-view shape of a stored set.
type QuestionSetSummary struct {
	ID        string   `json:"id"`
	Course    string   `json:"course"`
	Subject   string   `json:"subject"`
	Topics    []string `json:"topics"`
	Count     int      `json:"count"`
	CreatedAt string   `json:"created_at"`
}
