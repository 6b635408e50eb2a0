// Package expand augments factual queries with intent-specific synonyms to
// improve retrieval recall. Expansion only appends terms; the original
// query's own terms are never altered.
package expand

import (
	"strings"

	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/patterns"
)

// maxSynonyms bounds how many terms are appended per query.
const maxSynonyms = 2

// Expand appends up to two synonym terms for the detected intent, skipping
// any already present in the query. An unrecognized or empty intent returns
// the query unchanged.
func Expand(query string, intent model.Intent) string {
	synonyms, ok := patterns.Synonyms[intent]
	if !ok {
		return query
	}

	lower := strings.ToLower(query)
	parts := []string{query}
	added := 0
	for _, syn := range synonyms {
		if added >= maxSynonyms {
			break
		}
		if strings.Contains(lower, strings.ToLower(syn)) {
			continue
		}
		parts = append(parts, syn)
		added++
	}

	return strings.Join(parts, " ")
}
