// Package classify routes each incoming query to exactly one handling path.
// Classification is a pure, total function over the normalized query and the
// static pattern tables: it never fails and never performs I/O.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/patterns"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize lowercases a query and collapses whitespace. The normalized form
// drives pattern matching only; it is never shown to the user.
func Normalize(query string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(query), " "))
}

// rule is one stage of the cascade. It either claims the query with a full
// classification or passes it to the next rule. Order is correctness-
// critical: each stage only restricts further, so the safety-relevant stages
// run before the permissive default.
type rule struct {
	name  string
	apply func(q string) (model.Classification, bool)
}

// Classifier assigns one classification per query via an ordered,
// first-match-wins rule table.
type Classifier struct {
	rules []rule
}

// New builds the classifier with the standard rule order:
// jailbreak, non_mf, advice, scheme_unavailable, factual.
// Anything that falls through is unknown.
func New() *Classifier {
	return &Classifier{
		rules: []rule{
			{name: "jailbreak", apply: matchJailbreak},
			{name: "non_mf", apply: matchNonMF},
			{name: "advice", apply: matchAdvice},
			{name: "scheme", apply: matchScheme},
		},
	}
}

// Classify assigns exactly one route to the raw query. Empty or
// whitespace-only input classifies as unknown.
func (c *Classifier) Classify(query string) model.Classification {
	q := Normalize(query)
	if q == "" {
		return model.Classification{Route: model.RouteUnknown}
	}

	for _, r := range c.rules {
		if cls, ok := r.apply(q); ok {
			return cls
		}
	}

	return model.Classification{
		Route:  model.RouteUnknown,
		Scheme: patterns.MatchScheme(q),
	}
}

// matchJailbreak runs first: jailbreak phrasing can masquerade as a factual
// or advice query and must never reach the later, more permissive stages.
func matchJailbreak(q string) (model.Classification, bool) {
	for _, re := range patterns.JailbreakPatterns {
		if re.MatchString(q) {
			return model.Classification{
				Route: model.RouteJailbreak,
				Rule:  "jailbreak:" + re.String(),
			}, true
		}
	}
	if specialCharRatio(q) > 0.5 {
		return model.Classification{
			Route: model.RouteJailbreak,
			Rule:  "jailbreak:special_chars",
		}, true
	}
	return model.Classification{}, false
}

// matchNonMF flags off-topic queries. A query that simultaneously carries a
// factual intent, names a known scheme, or uses mutual-fund vocabulary stays
// in the pipeline for the later stages to judge.
func matchNonMF(q string) (model.Classification, bool) {
	if DetectIntent(q) != "" || patterns.MatchScheme(q) != "" {
		return model.Classification{}, false
	}
	for _, kw := range patterns.NonMFKeywords {
		if strings.Contains(q, kw) {
			return model.Classification{Route: model.RouteNonMF, Rule: "non_mf:" + kw}, true
		}
	}
	// Long queries with no mutual-fund vocabulary at all are chit-chat.
	if !containsAny(q, patterns.MFTerms) && len(strings.Fields(q)) > 3 {
		return model.Classification{Route: model.RouteNonMF, Rule: "non_mf:no_mf_terms"}, true
	}
	return model.Classification{}, false
}

func matchAdvice(q string) (model.Classification, bool) {
	for _, kw := range patterns.AdviceKeywords {
		if strings.Contains(q, kw) {
			return model.Classification{Route: model.RouteAdvice, Rule: "advice:" + kw}, true
		}
	}
	for _, re := range patterns.AdvicePatterns {
		if re.MatchString(q) {
			return model.Classification{Route: model.RouteAdvice, Rule: "advice:" + re.String()}, true
		}
	}
	return model.Classification{}, false
}

// matchScheme resolves the factual and scheme_unavailable routes. A factual
// intent with a scheme we hold no documents for short-circuits to a template
// carrying the known-scheme list; an intent with no scheme (or a known one)
// proceeds to retrieval.
func matchScheme(q string) (model.Classification, bool) {
	intent := DetectIntent(q)
	if intent == "" {
		return model.Classification{}, false
	}
	scheme := patterns.MatchScheme(q)
	if scheme != "" && !patterns.SchemeAvailable(scheme) {
		return model.Classification{
			Route:  model.RouteSchemeUnavailable,
			Scheme: scheme,
			Intent: intent,
			Rule:   "scheme:unavailable",
		}, true
	}
	return model.Classification{
		Route:  model.RouteFactual,
		Scheme: scheme,
		Intent: intent,
		Rule:   "factual:" + string(intent),
	}, true
}

// DetectIntent returns the first factual intent whose keyword group matches,
// in the fixed priority order, or "" when none match. Keywords match on
// word boundaries over the normalized query.
func DetectIntent(q string) model.Intent {
	for _, intent := range patterns.IntentOrder() {
		for _, re := range patterns.IntentPatterns[intent] {
			if re.MatchString(q) {
				return intent
			}
		}
	}
	return ""
}

func containsAny(q string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// specialCharRatio measures the share of characters that are neither
// alphanumeric nor ordinary punctuation. A majority of such characters
// suggests an encoding or obfuscation attempt.
func specialCharRatio(q string) float64 {
	if q == "" {
		return 0
	}
	special := 0
	for _, r := range q {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == ' ', r == '.', r == ',', r == '?', r == '!', r == '-', r == '(', r == ')', r == '%':
		default:
			special++
		}
	}
	return float64(special) / float64(len([]rune(q)))
}
