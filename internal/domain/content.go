package domain

import (
	"regexp"
	"strings"
)

// ContentType discriminates the two kinds of reviewable content.
type ContentType string

const (
	ContentTypeQBank  ContentType = "qbank"
	ContentTypeLesson ContentType = "lesson"
)

// Valid reports whether the content type is one of the supported values.
func (t ContentType) Valid() bool {
	return t == ContentTypeQBank || t == ContentTypeLesson
}

// ContentItem is a single reviewable unit: either a multiple-choice question
// (qbank) or a lesson section. Items are identified by their position in the
// request; that position is preserved through the whole pipeline.
type ContentItem struct {
	// Question fields
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectOption string   `json:"correct_option,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	BloomLevel    int      `json:"bloom_level,omitempty"`
	Difficulty    int      `json:"difficulty,omitempty"`
	Course        string   `json:"course,omitempty"`

	// Lesson section fields
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	// ImageURL is the explicit image handle: an absolute http(s) URL or a
	// filesystem-relative path.
	ImageURL string `json:"image_url,omitempty"`
}

// markdownImageRef matches embedded markdown image references in lesson bodies.
var markdownImageRef = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)

// Text returns the full searchable text of the item, used for keyword and
// spatial-reference pattern matching.
func (c *ContentItem) Text() string {
	parts := make([]string, 0, 6)
	for _, s := range []string{c.Question, strings.Join(c.Options, " "), c.Explanation, c.Title, c.Body} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// EmbeddedImageRefs returns image handles referenced by the item: the explicit
// ImageURL, if set, followed by any markdown image references in the body.
func (c *ContentItem) EmbeddedImageRefs() []string {
	var refs []string
	if c.ImageURL != "" {
		refs = append(refs, c.ImageURL)
	}
	for _, m := range markdownImageRef.FindAllStringSubmatch(c.Body, -1) {
		refs = append(refs, m[1])
	}
	return refs
}
