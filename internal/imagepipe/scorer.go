package imagepipe

import (
	"context"
	"fmt"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/review"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LLMVisionScorer grades a candidate image against the originating content
// with a vision-capable model. Candidate scoring is sequential by design; the
// limiter additionally keeps resolution requests from bursting against the
// vision API.
type LLMVisionScorer struct {
	llm     domain.LLMClient
	fetcher *Fetcher
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewLLMVisionScorer(llm domain.LLMClient, fetcher *Fetcher, requestsPerSecond float64, logger *zap.Logger) *LLMVisionScorer {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &LLMVisionScorer{
		llm:     llm,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}
}

const scoringRubric = `You are evaluating whether a candidate image fits an exam question or lesson passage.

CONTENT:
%s
%s
Score the image 0-100 against this rubric:
- Modality and subject match the content (heavily weighted).
- The specific diagnostic or illustrative feature the content depends on is visible.
- AUTOMATIC DISQUALIFICATION to 0-20: the image contains text overlays, labels, or captions that reveal the answer.
- General educational suitability (clarity, framing, professional quality).

Respond with ONLY a JSON object: {"score": <integer 0-100>, "rationale": "<one or two sentences>"}`

// Score downloads the candidate and asks the vision model to grade it.
// A download failure or non-image payload yields score 0 with a descriptive
// rationale rather than an error; only a failed vision call is an error.
func (s *LLMVisionScorer) Score(ctx context.Context, candidate domain.ImageDescriptor, sourceText, hint string) (domain.ScoredCandidate, error) {
	scored := domain.ScoredCandidate{ImageDescriptor: candidate}

	data, mime, err := s.fetcher.Fetch(ctx, candidate.URL)
	if err != nil {
		scored.Rationale = fmt.Sprintf("candidate unusable: %v", err)
		return scored, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return scored, err
	}

	hintLine := ""
	if hint != "" {
		hintLine = "KEY FINDING THE IMAGE MUST SHOW: " + hint + "\n"
	}
	resp, err := s.llm.Generate(ctx, domain.ChatRequest{
		Parts: []domain.ChatPart{
			domain.TextPart(fmt.Sprintf(scoringRubric, sourceText, hintLine)),
			domain.ImagePart(mime, data),
		},
		Temperature: 0,
	})
	if err != nil {
		return scored, err
	}

	obj := review.ExtractObject(resp)
	if obj == nil {
		s.logger.Warn("Vision scorer returned unparseable response",
			zap.String("candidate_url", candidate.URL),
		)
		scored.Rationale = "vision response unparseable"
		return scored, nil
	}

	scored.Score = clampScore(domain.Verdict(obj).Float("score"))
	scored.Rationale, _ = obj["rationale"].(string)
	return scored, nil
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}

var _ domain.VisionScorer = (*LLMVisionScorer)(nil)
