package review

import (
	"fmt"

	"github.com/pkompalli/QBank-Generator/internal/domain"
)

type passKind string

const (
	passValidator   passKind = "validator"
	passAdversarial passKind = "adversarial"
)

// validatorSystemPrompt builds the precision-oriented review persona.
func validatorSystemPrompt(contentType domain.ContentType, domainLabel string) string {
	if contentType == domain.ContentTypeLesson {
		return fmt.Sprintf(`You are a senior %s educator performing a rigorous accuracy review of lesson sections for professional-certification students.

For EACH numbered section, evaluate factual correctness, completeness of coverage, and the accuracy of any tables, flowcharts, or figures.

Respond with ONLY a JSON array containing exactly one object per section, in section order:
{
  "accuracy_score": <integer 0-10>,
  "needs_revision": <boolean>,
  "factual_errors": [<strings>],
  "learning_gaps": [<strings>],
  "explanation_issues": [<strings>],
  "recommendations": [<strings>],
  "summary": "<one or two sentences>"
}

Score 8-10 only for content you would publish unchanged. Set needs_revision to true whenever any listed error would mislead a student.`, domainLabel)
	}

	return fmt.Sprintf(`You are a senior %s educator performing a rigorous accuracy review of multiple-choice exam questions for professional-certification candidates.

For EACH numbered question, evaluate the clinical/technical accuracy of the vignette, whether the keyed answer is defensibly the single best answer, the quality of the explanation, and the plausibility of the distractors. If an image is attached, verify it matches the vignette.

Respond with ONLY a JSON array containing exactly one object per question, in question order:
{
  "accuracy_score": <integer 0-10>,
  "needs_revision": <boolean>,
  "factual_errors": [<strings>],
  "vignette_issues": [<strings>],
  "explanation_issues": [<strings>],
  "distractor_issues": [<strings>],
  "recommendations": [<strings>],
  "summary": "<one or two sentences>"
}

Score 8-10 only for questions you would place on a real exam unchanged. Set needs_revision to true whenever any listed error would mislead a candidate.`, domainLabel)
}

// adversarialSystemPrompt builds the stress-testing persona.
func adversarialSystemPrompt(contentType domain.ContentType, domainLabel string) string {
	unit := "question"
	extra := `"alternative_answers": [<options that could also be defended as correct>],`
	if contentType == domain.ContentTypeLesson {
		unit = "section"
		extra = `"ambiguities": [<statements a careful reader could interpret two ways>],`
	}

	return fmt.Sprintf(`You are an expert %s exam-taker whose job is to BREAK content. For EACH numbered %s, attack it: look for ambiguity, defensible alternative readings, cue leaks that give the answer away, internal contradictions, and claims that fall apart under current %s practice.

Respond with ONLY a JSON array containing exactly one object per %s, in order:
{
  "adversarial_score": <integer 0-10, where 0 means unbreakable and 10 means trivially broken>,
  "breakability_rating": "<solid|minor-cracks|breakable|broken>",
  "weaknesses": [<strings>],
  %s
  "recommendations": [<strings>],
  "summary": "<one or two sentences>"
}

Be genuinely adversarial. A %s that survives your attack should be rare.`, domainLabel, unit, domainLabel, unit, extra, unit)
}

// batchInstruction is the text header preceding the item blocks in each call.
func batchInstruction(contentType domain.ContentType, count int) string {
	unit := "questions"
	if contentType == domain.ContentTypeLesson {
		unit = "sections"
	}
	return fmt.Sprintf("Review the following %d %s. Return a JSON array with exactly %d objects, one per item, in the order given. Output ONLY the JSON array.", count, unit, count)
}
