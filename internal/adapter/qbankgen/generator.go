// Package qbankgen generates exam questions with an LLM, following the
// NEET PG and USMLE exam patterns.
package qbankgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/review"

	"go.uber.org/zap"
)

// maxFewShotExamples bounds how many sample questions are inlined into the
// generation prompt.
const maxFewShotExamples = 3

// Generator produces MCQs for one course/subject/topic via a single model
// call per topic.
type Generator struct {
	llm       domain.LLMClient
	maxTokens int
	logger    *zap.Logger

	neetExamples  []domain.ContentItem
	usmleExamples []domain.ContentItem
}

// NewGenerator builds a Generator. The example slices seed the few-shot
// blocks of the prompts and may be empty.
func NewGenerator(llm domain.LLMClient, maxTokens int, neetExamples, usmleExamples []domain.ContentItem, logger *zap.Logger) *Generator {
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	return &Generator{
		llm:           llm,
		maxTokens:     maxTokens,
		logger:        logger,
		neetExamples:  truncateExamples(neetExamples),
		usmleExamples: truncateExamples(usmleExamples),
	}
}

func truncateExamples(examples []domain.ContentItem) []domain.ContentItem {
	if len(examples) > maxFewShotExamples {
		return examples[:maxFewShotExamples]
	}
	return examples
}

func (g *Generator) GenerateQuestions(ctx context.Context, course, subject, topic string, numQuestions int) ([]domain.ContentItem, error) {
	var prompt string
	switch course {
	case domain.CourseNEETPG:
		prompt = g.neetPrompt(subject, topic, numQuestions)
	case domain.CourseUSMLE:
		prompt = g.usmlePrompt(subject, topic, numQuestions)
	default:
		return nil, domain.NewInvalidCourseError(course)
	}

	resp, err := g.llm.Generate(ctx, domain.ChatRequest{
		Parts:     []domain.ChatPart{domain.TextPart(prompt)},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions(resp)
	if err != nil {
		g.logger.Error("Generation response could not be parsed",
			zap.String("course", course),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, domain.NewLLMServiceError(err)
	}

	g.logger.Info("Generated questions",
		zap.String("course", course),
		zap.String("subject", subject),
		zap.String("topic", topic),
		zap.Int("requested", numQuestions),
		zap.Int("returned", len(questions)),
	)
	return questions, nil
}

// parseQuestions reuses the review extractor for the array-anchored parse,
// then remarshals each element into a typed item.
func parseQuestions(resp string) ([]domain.ContentItem, error) {
	verdicts := review.ExtractVerdicts(resp)
	if len(verdicts) == 0 {
		return nil, fmt.Errorf("no question array found in model response")
	}

	questions := make([]domain.ContentItem, 0, len(verdicts))
	for i, v := range verdicts {
		raw, err := json.Marshal(map[string]any(v))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		var item domain.ContentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if item.Question == "" {
			return nil, fmt.Errorf("question %d has no question text", i)
		}
		questions = append(questions, item)
	}
	return questions, nil
}

// bloomDistribution spreads numQuestions evenly across the given levels, with
// the remainder going one extra each to the earliest levels.
func bloomDistribution(numQuestions int, levels []int) map[int]int {
	perLevel := numQuestions / len(levels)
	remainder := numQuestions % len(levels)

	dist := make(map[int]int, len(levels))
	for i, level := range levels {
		dist[level] = perLevel
		if i < remainder {
			dist[level]++
		}
	}
	return dist
}

func examplesJSON(examples []domain.ContentItem) string {
	if len(examples) == 0 {
		return "[]"
	}
	data, err := json.MarshalIndent(examples, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func (g *Generator) neetPrompt(subject, topic string, numQuestions int) string {
	dist := bloomDistribution(numQuestions, []int{1, 2, 3, 4, 5})

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert medical educator creating MCQs for NEET PG (National Eligibility cum Entrance Test - Postgraduate) examination in India.

Generate exactly %d unique MCQs following NEET PG exam pattern.

SUBJECT: %s
TOPIC: %s

BLOOM'S LEVEL DISTRIBUTION (MANDATORY - must follow exactly):
- Bloom's Level 1 (Remember/Recall): %d questions
- Bloom's Level 2 (Understand): %d questions
- Bloom's Level 3 (Apply): %d questions
- Bloom's Level 4 (Analyze): %d questions
- Bloom's Level 5 (Evaluate/Synthesize): %d questions

DIFFICULTY LEVELS:
- 1 = Medium
- 2 = Hard
- 3 = Very Hard

Mix difficulties across all Bloom's levels.

STRICT FORMAT REQUIREMENTS:
1. Each question MUST have exactly 4 options
2. correct_option must be the exact text of the correct answer
3. Questions must follow NEET PG clinical vignette style for higher Bloom's levels
4. No duplicate questions
5. Tags must be ["NEET-PG", "INICET"]

EXAMPLE FORMAT:
%s

Generate %d questions in valid JSON array format. Output ONLY the JSON array, no other text.`,
		numQuestions, subject, topic,
		dist[1], dist[2], dist[3], dist[4], dist[5],
		examplesJSON(g.neetExamples), numQuestions)
	return b.String()
}

func (g *Generator) usmlePrompt(subject, topic string, numQuestions int) string {
	dist := bloomDistribution(numQuestions, []int{3, 4, 5})

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert medical educator creating MCQs for USMLE (United States Medical Licensing Examination) Steps 1, 2, and 3.

Generate exactly %d unique MCQs following USMLE exam pattern.

SUBJECT: %s
TOPIC: %s

BLOOM'S LEVEL DISTRIBUTION (MANDATORY - must follow exactly):
- Bloom's Level 3 (Apply): %d questions
- Bloom's Level 4 (Analyze): %d questions
- Bloom's Level 5 (Evaluate/Synthesize): %d questions

DIFFICULTY LEVELS:
- 1 = Medium
- 2 = Hard
- 3 = Very Hard

Mix difficulties across all Bloom's levels.

STRICT FORMAT REQUIREMENTS:
1. Each question MUST have exactly 5 options
2. correct_option must be the exact text of the correct answer
3. Questions must follow USMLE clinical vignette style with patient presentations
4. No duplicate questions
5. Tags must include "USMLE" plus relevant steps like "USMLE - Step 1", "USMLE - Step 2", "USMLE - Step 3"
6. Each question MUST include "course": "US Medical PG" field

EXAMPLE FORMAT:
%s

Generate %d questions in valid JSON array format. Output ONLY the JSON array, no other text.`,
		numQuestions, subject, topic,
		dist[3], dist[4], dist[5],
		examplesJSON(g.usmleExamples), numQuestions)
	return b.String()
}

var _ domain.QuestionGenerator = (*Generator)(nil)
