package retrieve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fundfaq/fundfaq/internal/model"
)

var wordRe = regexp.MustCompile(`\b\w+\b`)

// docTypePriority biases official scheme-details pages over third-party
// listings when semantic scores are close.
var docTypePriority = map[string]float64{
	"scheme_details": 1.0,
	"groww_listing":  0.8,
}

// Rerank re-orders chunks by combining the vector-store score with a
// keyword-overlap bonus, a document-type bonus, and a scheme-name match
// bonus. Input order is left untouched; a re-ranked copy is returned.
func Rerank(chunks []model.RetrievedChunk, query string) []model.RetrievedChunk {
	if len(chunks) == 0 {
		return chunks
	}

	queryWords := wordSet(strings.ToLower(query))

	out := make([]model.RetrievedChunk, len(chunks))
	copy(out, chunks)

	for i := range out {
		score := out[i].Score

		// Keyword overlap, capped so lexical match never dominates.
		overlap := 0
		for w := range wordSet(strings.ToLower(out[i].Text)) {
			if queryWords[w] {
				overlap++
			}
		}
		bonus := float64(overlap) * 0.05
		if bonus > 0.2 {
			bonus = 0.2
		}
		score += bonus

		prio, ok := docTypePriority[out[i].DocType]
		if !ok {
			prio = 0.5
		}
		score += (prio - 0.5) * 0.1

		if schemeMatches(out[i].Scheme, queryWords) {
			score += 0.1
		}

		out[i].Reranked = score
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Reranked > out[b].Reranked
	})
	return out
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordRe.FindAllString(s, -1) {
		set[w] = true
	}
	return set
}

// schemeMatches reports whether any substantial query word appears in the
// chunk's scheme tag. Short words like "sbi" are skipped to avoid matching
// every scheme in the family.
func schemeMatches(scheme string, queryWords map[string]bool) bool {
	if scheme == "" {
		return false
	}
	lower := strings.ToLower(scheme)
	for w := range queryWords {
		if len(w) > 3 && strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
