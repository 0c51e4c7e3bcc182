package review

import (
	"context"
	"sync"

	"github.com/pkompalli/QBank-Generator/internal/config"
	"github.com/pkompalli/QBank-Generator/internal/domain"

	"go.uber.org/zap"
)

// BatchReviewer fans the surviving items out across fixed-size batches and
// runs a validator pass and an adversarial pass per batch, all concurrently.
// Results land in index-addressed slots, so out-of-order completion cannot
// corrupt item ordering. A failed or malformed batch response degrades only
// that batch's items to empty verdicts; siblings are unaffected.
type BatchReviewer struct {
	llm    domain.LLMClient
	loader ImageLoader
	cfg    config.ReviewConfig
	llmCfg config.LLMConfig
	logger *zap.Logger
}

func NewBatchReviewer(llm domain.LLMClient, loader ImageLoader, cfg config.ReviewConfig, llmCfg config.LLMConfig, logger *zap.Logger) *BatchReviewer {
	return &BatchReviewer{
		llm:    llm,
		loader: loader,
		cfg:    cfg,
		llmCfg: llmCfg,
		logger: logger,
	}
}

// ReviewItems returns one validator verdict and one adversarial verdict per
// item, in input order. Verdicts are never nil; extraction failures leave
// empty maps. It does not return an error: failures are contained per batch.
func (r *BatchReviewer) ReviewItems(ctx context.Context, contentType domain.ContentType, items []domain.ContentItem, domainLabel string) ([]domain.Verdict, []domain.Verdict) {
	validators := make([]domain.Verdict, len(items))
	adversarials := make([]domain.Verdict, len(items))
	for i := range items {
		validators[i] = domain.Verdict{}
		adversarials[i] = domain.Verdict{}
	}
	if len(items) == 0 {
		return validators, adversarials
	}

	batchSize := r.batchSize(contentType)
	validatorSystem := validatorSystemPrompt(contentType, domainLabel)
	adversarialSystem := adversarialSystemPrompt(contentType, domainLabel)

	var wg sync.WaitGroup
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		start, end := start, end

		wg.Add(1)
		go func() {
			defer wg.Done()

			// The payload (including inlined images) is built once and
			// shared by both passes over this batch.
			parts := buildBatchParts(ctx, r.loader, contentType, items[start:end], start, r.logger)

			var pw sync.WaitGroup
			pw.Add(2)
			go func() {
				defer pw.Done()
				r.runPass(ctx, passValidator, validatorSystem, r.llmCfg.ValidatorTemperature, parts, validators[start:end])
			}()
			go func() {
				defer pw.Done()
				r.runPass(ctx, passAdversarial, adversarialSystem, r.llmCfg.AdversarialTemperature, parts, adversarials[start:end])
			}()
			pw.Wait()
		}()
	}
	wg.Wait()

	return validators, adversarials
}

// runPass issues one model call for one batch and slots the extracted
// verdicts into the results slice it owns. Missing or surplus entries are
// tolerated: missing slots stay empty (a parse failure, not a content
// failure), surplus entries are dropped.
func (r *BatchReviewer) runPass(ctx context.Context, kind passKind, system string, temperature float64, parts []domain.ChatPart, slots []domain.Verdict) {
	resp, err := r.llm.Generate(ctx, domain.ChatRequest{
		System:      system,
		Parts:       parts,
		Temperature: temperature,
		MaxTokens:   r.llmCfg.MaxTokens,
	})
	if err != nil {
		r.logger.Error("Review pass failed; degrading batch to empty verdicts",
			zap.String("pass", string(kind)),
			zap.Int("batch_size", len(slots)),
			zap.Error(err),
		)
		return
	}

	verdicts := ExtractVerdicts(resp)
	if len(verdicts) != len(slots) {
		r.logger.Warn("Review pass returned unexpected verdict count",
			zap.String("pass", string(kind)),
			zap.Int("expected", len(slots)),
			zap.Int("got", len(verdicts)),
		)
	}
	for i := range slots {
		if i < len(verdicts) {
			slots[i] = verdicts[i]
		}
	}
}

func (r *BatchReviewer) batchSize(contentType domain.ContentType) int {
	size := r.cfg.QBankBatchSize
	if contentType == domain.ContentTypeLesson {
		size = r.cfg.LessonBatchSize
	}
	if size <= 0 {
		size = 1
	}
	return size
}
