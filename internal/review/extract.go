package review

import (
	"encoding/json"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/logger"

	"go.uber.org/zap"
)

// Models reliably produce well-formed JSON but unreliably suppress the prose
// around it, so extraction scans for a parseable value anywhere in the text
// instead of trusting the response shape. Fallback order: array anywhere →
// object anywhere (unwrapped or treated as a one-element array) → empty.

// wrapperKeys are the conventional keys under which models wrap the actual
// array when they return an object instead.
var wrapperKeys = []string{"items", "results", "sections", "questions", "data"}

const previewLimit = 300

// ExtractVerdicts recovers a JSON array of per-item objects from free-form
// model output. It returns an empty slice when nothing parses; it never
// returns nil maps.
func ExtractVerdicts(raw string) []domain.Verdict {
	// Pass 1: try every '[' as an array anchor.
	for i := 0; i < len(raw); i++ {
		if raw[i] != '[' {
			continue
		}
		var arr []domain.Verdict
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&arr); err == nil {
			return sanitize(arr)
		}
	}

	// Pass 2: try every '{' as an object anchor, then unwrap or promote.
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		var obj map[string]any
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		if arr, ok := unwrapArray(obj); ok {
			return sanitize(arr)
		}
		// A lone object stands in for a one-element array.
		return []domain.Verdict{obj}
	}

	logger.Get().Warn("Failed to extract JSON array from model response",
		zap.String("response_preview", preview(raw)),
	)
	return []domain.Verdict{}
}

// ExtractObject recovers a single JSON object from free-form model output,
// for calls whose contract is one object rather than an array (vision scores,
// annotation coordinates). Returns nil when nothing parses.
func ExtractObject(raw string) map[string]any {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		var obj map[string]any
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&obj); err == nil {
			return obj
		}
	}
	logger.Get().Warn("Failed to extract JSON object from model response",
		zap.String("response_preview", preview(raw)),
	)
	return nil
}

// unwrapArray looks for the real array under one of the conventional keys.
func unwrapArray(obj map[string]any) ([]domain.Verdict, bool) {
	for _, key := range wrapperKeys {
		inner, ok := obj[key].([]any)
		if !ok {
			continue
		}
		arr := make([]domain.Verdict, 0, len(inner))
		for _, el := range inner {
			if m, ok := el.(map[string]any); ok {
				arr = append(arr, m)
			}
		}
		return arr, true
	}
	return nil, false
}

// sanitize replaces nil entries (JSON null elements) with empty verdicts so
// the "never nil" invariant holds downstream.
func sanitize(arr []domain.Verdict) []domain.Verdict {
	for i, v := range arr {
		if v == nil {
			arr[i] = domain.Verdict{}
		}
	}
	return arr
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}
