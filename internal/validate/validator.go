// Package validate enforces the output contract on generated answers: a
// source citation, no advice language, factual framing, and a sentence
// bound. Failures trigger a deterministic repair pass; anything still
// non-compliant afterwards is unrepairable and the caller must fall back.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/patterns"
)

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
	decimalRe  = regexp.MustCompile(`(\d)\.(\d)`)
)

// Validator checks generated answers against the output contract.
type Validator struct {
	maxSentences int
	defaultURL   string

	opinionRes    []*regexp.Regexp
	subjectiveRes []*regexp.Regexp
}

// New creates a validator. maxSentences bounds the answer body, not
// counting the trailing citation. defaultURL backs the citation when the
// context carries no source URL.
func New(maxSentences int, defaultURL string) *Validator {
	v := &Validator{
		maxSentences: maxSentences,
		defaultURL:   defaultURL,
	}
	for _, w := range patterns.OpinionWords {
		v.opinionRes = append(v.opinionRes, wordBoundaryRe(w))
	}
	for _, w := range patterns.SubjectiveAdjectives {
		v.subjectiveRes = append(v.subjectiveRes, wordBoundaryRe(w))
	}
	return v
}

func wordBoundaryRe(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(word)) + `\b`)
}

// ValidateAndRepair runs all four checks on the answer and, when any fail,
// attempts repair: advice and opinion stripping first, citation appending
// next, sentence truncation last so the citation is never truncated away.
// On an already-valid answer the call is idempotent. An unrepairable answer
// yields ValidationResult.Unrepairable=true and the Response must be
// ignored in favor of the static fallback.
func (v *Validator) ValidateAndRepair(answer string, context model.AssembledContext) (model.Response, model.ValidationResult) {
	sourceURL := context.PrimaryURL()
	if sourceURL == "" {
		sourceURL = v.defaultURL
	}

	result := model.ValidationResult{
		CitationOK:  v.checkCitation(answer, context.SourceURLs),
		NoAdviceOK:  len(v.adviceTerms(answer)) == 0,
		FactsOnlyOK: len(v.subjectiveTerms(answer)) == 0,
		LengthOK:    countSentences(stripCitationTail(answer)) <= v.maxSentences,
	}

	if result.Pass() {
		return model.Response{
			Answer:    answer,
			SourceURL: sourceURL,
			Origin:    model.OriginGenerated,
		}, result
	}

	repaired, fixes, ok := v.repair(answer, sourceURL, result)
	result.Fixes = fixes
	if !ok {
		result.Unrepairable = true
		return model.Response{}, result
	}

	return model.Response{
		Answer:    repaired,
		SourceURL: sourceURL,
		Origin:    model.OriginRepaired,
	}, result
}

// repair rebuilds the answer deterministically. Returns false when nothing
// factual survives stripping.
func (v *Validator) repair(answer, sourceURL string, result model.ValidationResult) (string, []string, bool) {
	var fixes []string

	body := stripCitationTail(answer)

	if !result.NoAdviceOK {
		var stripped bool
		body, stripped = v.stripSentences(body, v.adviceTerms)
		if stripped {
			fixes = append(fixes, "stripped advice language")
		}
	}
	if !result.FactsOnlyOK {
		var stripped bool
		body, stripped = v.stripSentences(body, v.subjectiveTerms)
		if stripped {
			fixes = append(fixes, "stripped opinion language")
		}
	}

	if strings.TrimSpace(body) == "" {
		return "", fixes, false
	}

	if n := countSentences(body); n > v.maxSentences {
		body = truncateSentences(body, v.maxSentences)
		fixes = append(fixes, fmt.Sprintf("truncated from %d to %d sentences", n, v.maxSentences))
	}

	if !result.CitationOK {
		fixes = append(fixes, "added citation")
	}

	body = strings.TrimSpace(body)
	if !strings.HasSuffix(body, ".") && !strings.HasSuffix(body, "!") && !strings.HasSuffix(body, "?") {
		body += "."
	}

	repaired := body + " " + patterns.CitationPhrase
	if sourceURL != "" {
		repaired += " For more information, visit " + sourceURL + "."
	}

	return repaired, fixes, true
}

// checkCitation passes when the answer carries the fixed citation phrase,
// any citation marker, one of the context's source URLs, or any URL.
func (v *Validator) checkCitation(answer string, sourceURLs []string) bool {
	lower := strings.ToLower(answer)
	for _, re := range patterns.CitationPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	for _, u := range sourceURLs {
		if u != "" && strings.Contains(answer, u) {
			return true
		}
	}
	return patterns.URLPattern.MatchString(answer)
}

// adviceTerms returns advice keywords and opinion words found in the text.
func (v *Validator) adviceTerms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range patterns.AdviceKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	for i, re := range v.opinionRes {
		if re.MatchString(lower) {
			found = append(found, patterns.OpinionWords[i])
		}
	}
	return found
}

// subjectiveTerms returns first-person markers and subjective adjectives
// found in the text.
func (v *Validator) subjectiveTerms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, m := range patterns.FirstPersonMarkers {
		if strings.Contains(lower, m) {
			found = append(found, m)
		}
	}
	for i, re := range v.subjectiveRes {
		if re.MatchString(lower) {
			found = append(found, patterns.SubjectiveAdjectives[i])
		}
	}
	return found
}

// stripSentences drops every sentence containing a term reported by detect.
// Returns the surviving text and whether anything was dropped.
func (v *Validator) stripSentences(text string, detect func(string) []string) (string, bool) {
	var kept []string
	stripped := false
	for _, s := range splitSentences(text) {
		if len(detect(s)) > 0 {
			stripped = true
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, " "), stripped
}

// splitSentences splits text on sentence terminators, keeping the
// terminator with its sentence. Dots inside URLs and decimal numbers are
// masked first so "0.68%" or a cited link is not shredded into fragments.
func splitSentences(text string) []string {
	masked := patterns.URLPattern.ReplaceAllStringFunc(text, func(u string) string {
		return strings.ReplaceAll(u, ".", "\x00")
	})
	masked = decimalRe.ReplaceAllString(masked, "$1\x00$2")
	var out []string
	for _, m := range sentenceRe.FindAllString(masked, -1) {
		s := strings.TrimSpace(strings.ReplaceAll(m, "\x00", "."))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func countSentences(text string) int {
	return len(splitSentences(text))
}

// truncateSentences keeps the first max sentences, never cutting
// mid-sentence.
func truncateSentences(text string, max int) string {
	sentences := splitSentences(text)
	if len(sentences) <= max {
		return text
	}
	return strings.Join(sentences[:max], " ")
}

// stripCitationTail removes the trailing citation sentences (the fixed
// phrase and any visit-URL sentence) so the length bound applies to the
// answer body only.
func stripCitationTail(answer string) string {
	sentences := splitSentences(answer)
	for len(sentences) > 0 {
		last := strings.ToLower(sentences[len(sentences)-1])
		if isCitationSentence(last) {
			sentences = sentences[:len(sentences)-1]
			continue
		}
		break
	}
	return strings.Join(sentences, " ")
}

func isCitationSentence(lower string) bool {
	for _, re := range patterns.CitationPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return patterns.URLPattern.MatchString(lower)
}
