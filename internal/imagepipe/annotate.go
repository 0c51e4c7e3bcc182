package imagepipe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"regexp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/review"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// annotationPattern matches spatial-callout keywords as whole words, so
// "markedly" does not trigger on "marked".
var annotationPattern = regexp.MustCompile(`(?i)\b(arrow|arrowhead|circled|circle|boxed|box|highlighted|pointer|asterisk|starred)\b`)

// NeedsAnnotation reports whether the source text calls out a specific
// location in the image.
func NeedsAnnotation(sourceText string) bool {
	return annotationPattern.MatchString(sourceText)
}

// Marker shapes the localization model may pick.
const (
	shapeCircle = "circle"
	shapeArrow  = "arrow"
	shapeBox    = "box"
)

// VisionAnnotator asks a vision model where the referenced feature sits in
// the image, then draws the requested marker on a copy. Every failure path
// returns an error so the caller can fall back to the unmodified image;
// annotation is an enhancement, never a requirement.
type VisionAnnotator struct {
	llm    domain.LLMClient
	logger *zap.Logger
}

func NewVisionAnnotator(llm domain.LLMClient, logger *zap.Logger) *VisionAnnotator {
	return &VisionAnnotator{llm: llm, logger: logger}
}

const localizationPrompt = `This image accompanies the following text, which references a specific visual feature:

%s

Locate that feature in the image. Respond with ONLY a JSON object:
{"x_percent": <0-100, horizontal center of the feature>, "y_percent": <0-100, vertical center>, "shape": "circle"|"arrow"|"box"}`

func (a *VisionAnnotator) Annotate(ctx context.Context, imgData []byte, sourceText string) ([]byte, error) {
	mimeType := detectMIME(imgData)

	resp, err := a.llm.Generate(ctx, domain.ChatRequest{
		Parts: []domain.ChatPart{
			domain.TextPart(fmt.Sprintf(localizationPrompt, sourceText)),
			domain.ImagePart(mimeType, imgData),
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("localization call failed: %w", err)
	}

	obj := review.ExtractObject(resp)
	if obj == nil {
		return nil, fmt.Errorf("localization response unparseable")
	}
	loc := domain.Verdict(obj)
	xPct := loc.Float("x_percent")
	yPct := loc.Float("y_percent")
	shape, _ := obj["shape"].(string)
	if xPct < 0 || xPct > 100 || yPct < 0 || yPct > 100 {
		return nil, fmt.Errorf("localization out of bounds: x=%v y=%v", xPct, yPct)
	}

	return drawMarker(imgData, xPct, yPct, shape)
}

// drawMarker renders the marker onto a copy of the image and returns PNG bytes.
func drawMarker(imgData []byte, xPct, yPct float64, shape string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dc := gg.NewContextForImage(img)
	w := float64(dc.Width())
	h := float64(dc.Height())
	x := xPct / 100 * w
	y := yPct / 100 * h
	r := 0.08 * math.Min(w, h)

	dc.SetRGB(0.85, 0.1, 0.1)
	dc.SetLineWidth(math.Max(3, 0.008*math.Min(w, h)))

	switch shape {
	case shapeBox:
		dc.DrawRectangle(x-r, y-r, 2*r, 2*r)
		dc.Stroke()
	case shapeArrow:
		// Shaft from lower-left toward the feature, plus two head strokes.
		tailX, tailY := x-2.5*r, y+2.5*r
		dc.DrawLine(tailX, tailY, x, y)
		dc.Stroke()
		dc.DrawLine(x, y, x-0.6*r, y+0.15*r)
		dc.Stroke()
		dc.DrawLine(x, y, x-0.15*r, y+0.6*r)
		dc.Stroke()
	default:
		dc.DrawCircle(x, y, r)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

var _ domain.Annotator = (*VisionAnnotator)(nil)
