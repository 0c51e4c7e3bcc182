package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMConfig_VisionModelName(t *testing.T) {
	cfg := LLMConfig{Model: "claude-sonnet-4-5"}
	assert.Equal(t, "claude-sonnet-4-5", cfg.VisionModelName(), "falls back to the text model")

	cfg.VisionModel = "claude-opus-4-1"
	assert.Equal(t, "claude-opus-4-1", cfg.VisionModelName())
}

func TestCanonicalCourseKeys(t *testing.T) {
	in := map[string]string{
		"neet pg": "data/neet_subjects.json",
		"usmle":   "data/usmle_subjects.json",
		"other":   "data/other.json",
	}

	out := canonicalCourseKeys(in)

	assert.Equal(t, map[string]string{
		"NEET PG": "data/neet_subjects.json",
		"USMLE":   "data/usmle_subjects.json",
		"other":   "data/other.json",
	}, out)
}
