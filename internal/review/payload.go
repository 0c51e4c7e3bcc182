package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"go.uber.org/zap"
)

// ImageLoader resolves an image handle (URL or local path) to raw bytes and
// a MIME type. The review payload builder uses it to inline every embedded
// image; the imagepipe fetcher is the production implementation.
type ImageLoader func(ctx context.Context, ref string) (data []byte, mime string, err error)

// Placeholders inserted where a referenced image could not be inlined.
// "Declared missing" (empty handle) and "load failed" are distinct signals
// to the reviewing model.
const (
	placeholderImageMissing    = "[IMAGE DECLARED BUT MISSING]"
	placeholderImageLoadFailed = "[IMAGE FAILED TO LOAD: %s]"
)

// buildBatchParts assembles the multimodal payload for one batch: a numbered
// text block per item with its embedded images attached inline immediately
// after the block. startIdx is the batch's offset into the full item list so
// numbering stays global.
func buildBatchParts(ctx context.Context, loader ImageLoader, contentType domain.ContentType, batch []domain.ContentItem, startIdx int, log *zap.Logger) []domain.ChatPart {
	parts := make([]domain.ChatPart, 0, len(batch)*2+1)
	parts = append(parts, domain.TextPart(batchInstruction(contentType, len(batch))))

	for i := range batch {
		item := &batch[i]
		label := fmt.Sprintf("Q%d", startIdx+i+1)
		if contentType == domain.ContentTypeLesson {
			label = fmt.Sprintf("SECTION %d", startIdx+i+1)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "=== %s ===\n", label)
		writeItemText(&b, contentType, item)

		refs := item.EmbeddedImageRefs()
		if len(refs) == 0 && spatialRefPattern.MatchString(item.Text()) {
			// Lesson sections are not pre-screened, so a declared-but-absent
			// image surfaces here as a placeholder instead.
			b.WriteString(placeholderImageMissing + "\n")
		}
		parts = append(parts, domain.TextPart(b.String()))

		for _, ref := range refs {
			data, mime, err := loader(ctx, ref)
			if err != nil {
				log.Warn("Failed to inline embedded image",
					zap.String("ref", ref),
					zap.Error(err),
				)
				parts = append(parts, domain.TextPart(fmt.Sprintf(placeholderImageLoadFailed, err)))
				continue
			}
			parts = append(parts, domain.ImagePart(mime, data))
		}
	}
	return parts
}

func writeItemText(b *strings.Builder, contentType domain.ContentType, item *domain.ContentItem) {
	if contentType == domain.ContentTypeLesson {
		if item.Title != "" {
			fmt.Fprintf(b, "Title: %s\n", item.Title)
		}
		fmt.Fprintf(b, "%s\n", item.Body)
		return
	}

	fmt.Fprintf(b, "Question: %s\n", item.Question)
	for i, opt := range item.Options {
		fmt.Fprintf(b, "%c. %s\n", 'A'+i, opt)
	}
	if item.CorrectOption != "" {
		fmt.Fprintf(b, "Correct answer: %s\n", item.CorrectOption)
	}
	if item.Explanation != "" {
		fmt.Fprintf(b, "Explanation: %s\n", item.Explanation)
	}
	if len(item.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n", strings.Join(item.Tags, ", "))
	}
}
