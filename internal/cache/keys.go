package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"
)

const (
	GlobalKeyPrefix = "qbank"

	// imageKeyTermCount bounds how many search terms participate in the key.
	// Queries that agree on their leading terms resolve to the same image.
	imageKeyTermCount = 3
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ImageKey derives the content-addressed cache key for an image search:
// a stable hash over the modality and the first three search terms. The
// terms are sorted after truncation so callers that reorder the same terms
// hit the same entry.
func ImageKey(spec domain.SearchSpec) string {
	terms := make([]string, 0, imageKeyTermCount)
	for _, t := range spec.SearchTerms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		terms = append(terms, t)
		if len(terms) == imageKeyTermCount {
			break
		}
	}
	sort.Strings(terms)

	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(spec.Modality)) + "|" + strings.Join(terms, "|")))
	return GenerateCacheKey("image", "resolved", hex.EncodeToString(h[:]))
}
