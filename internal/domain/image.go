package domain

import "context"

// ImageDescriptor is an opaque handle to a resolved image. Once cached it
// carries no validation state.
type ImageDescriptor struct {
	URL        string `json:"url"`
	SourceName string `json:"source_name"`
	Title      string `json:"title"`
}

// SearchSpec is the normalized media query, used both for external search and
// as the cache key input.
type SearchSpec struct {
	SearchTerms []string `json:"search_terms"`
	Modality    string   `json:"modality"`
}

// ScoredCandidate is a candidate image after vision scoring.
type ScoredCandidate struct {
	ImageDescriptor
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// ImageRequest is a full image resolution request.
type ImageRequest struct {
	SearchSpec
	// SourceText is the originating question or lesson text; it drives the
	// annotation decision and the scoring rubric.
	SourceText string `json:"source_text"`
	// DescriptionHint names the specific finding the image must show.
	DescriptionHint string `json:"description_hint"`
}

// MediaSource searches one external media service for candidate images.
// Implementations must not panic or leak transport errors as candidates;
// a failed search returns an error and the caller moves on.
type MediaSource interface {
	Name() string
	Search(ctx context.Context, spec SearchSpec, limit int) ([]ImageDescriptor, error)
}

// VisionScorer grades one candidate against the originating content.
// A download failure yields score 0 with a descriptive rationale, not an
// error; an error is returned only when the vision call itself fails.
type VisionScorer interface {
	Score(ctx context.Context, candidate ImageDescriptor, sourceText, hint string) (ScoredCandidate, error)
}

// ImageGenerator is the generative fallback when no searched candidate
// clears the quality threshold.
type ImageGenerator interface {
	Generate(ctx context.Context, spec SearchSpec, sourceText string) (*ImageDescriptor, error)
}

// Annotator localizes the referenced feature in an image and draws a marker
// on a copy. Annotation is best-effort: any failure is surfaced as an error
// and the caller keeps the unmodified image.
type Annotator interface {
	Annotate(ctx context.Context, image []byte, sourceText string) ([]byte, error)
}

// ImageResolver runs the full resolution pipeline. A nil descriptor with a
// nil error means no image could be resolved; the caller marks the item as
// still needing one.
type ImageResolver interface {
	Resolve(ctx context.Context, req ImageRequest) (*ImageDescriptor, error)
}
