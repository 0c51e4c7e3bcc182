package dto

import "github.com/pkompalli/QBank-Generator/internal/domain"

// ImageResolutionRequest asks the pipeline to find, generate, or annotate an
// image for one piece of content.
type ImageResolutionRequest struct {
	SearchTerms []string `json:"search_terms"`
	Modality    string   `json:"modality,omitempty"`
	SourceText  string   `json:"source_text,omitempty"`
	// DescriptionHint names the specific finding the image must show.
	DescriptionHint string `json:"description_hint,omitempty"`
}

// ImageResolutionResponse carries the resolved image. NeedsImage is true when
// nothing usable could be found or generated; Image is null in that case.
type ImageResolutionResponse struct {
	Image      *domain.ImageDescriptor `json:"image"`
	NeedsImage bool                    `json:"needs_image"`
}

// BatchImageResolutionRequest resolves every figure of a lesson in one call.
type BatchImageResolutionRequest struct {
	Figures []ImageResolutionRequest `json:"figures"`
}

// BatchImageResolutionResponse carries one result per requested figure, in
// request order. Figures that could not be resolved come back with a null
// image and needs_image set.
type BatchImageResolutionResponse struct {
	Results []ImageResolutionResponse `json:"results"`
}

// ToDomain converts the request into the pipeline's input shape.
func (r *ImageResolutionRequest) ToDomain() domain.ImageRequest {
	return domain.ImageRequest{
		SearchSpec: domain.SearchSpec{
			SearchTerms: r.SearchTerms,
			Modality:    r.Modality,
		},
		SourceText:      r.SourceText,
		DescriptionHint: r.DescriptionHint,
	}
}
