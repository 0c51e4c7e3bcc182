package review

import (
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVerdicts_MarkdownFence(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"a\":1}]\n```\nHope that helps!"
	got := ExtractVerdicts(raw)
	require.Len(t, got, 1)
	assert.Equal(t, float64(1), got[0].Float("a"))
}

func TestExtractVerdicts_BareArray(t *testing.T) {
	got := ExtractVerdicts(`[{"accuracy_score": 8, "needs_revision": false}, {"accuracy_score": 4}]`)
	require.Len(t, got, 2)
	assert.Equal(t, 8.0, got[0].Float(domain.VerdictAccuracyScore))
	assert.Equal(t, 4.0, got[1].Float(domain.VerdictAccuracyScore))
}

func TestExtractVerdicts_WrappingObject(t *testing.T) {
	got := ExtractVerdicts(`{"items": [{"a":1},{"a":2}]}`)
	require.Len(t, got, 2)
	assert.Equal(t, float64(2), got[1].Float("a"))
}

func TestExtractVerdicts_WrapperKeyVariants(t *testing.T) {
	for _, key := range []string{"results", "sections", "questions", "data"} {
		got := ExtractVerdicts(`prefix {"` + key + `": [{"x": 1}]} suffix`)
		require.Len(t, got, 1, "wrapper key %q", key)
	}
}

func TestExtractVerdicts_SingleObjectAsOneElementArray(t *testing.T) {
	got := ExtractVerdicts(`The verdict is: {"accuracy_score": 7, "summary": "fine"}`)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0].Float(domain.VerdictAccuracyScore))
}

func TestExtractVerdicts_ProseBracketBeforeRealArray(t *testing.T) {
	raw := "Scores [explained below] follow:\n[{\"a\": 1}]"
	got := ExtractVerdicts(raw)
	require.Len(t, got, 1)
}

func TestExtractVerdicts_Garbage(t *testing.T) {
	got := ExtractVerdicts("total nonsense with no json at all")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractVerdicts_NullElements(t *testing.T) {
	got := ExtractVerdicts(`[{"a":1}, null]`)
	require.Len(t, got, 2)
	assert.NotNil(t, got[1])
	assert.True(t, got[1].Empty())
}

func TestExtractObject(t *testing.T) {
	obj := ExtractObject("Sure!\n```json\n{\"score\": 85, \"rationale\": \"good match\"}\n```")
	require.NotNil(t, obj)
	assert.Equal(t, float64(85), obj["score"])

	assert.Nil(t, ExtractObject("no json here"))
}
