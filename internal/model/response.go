package model

// Origin records how a response was produced
type Origin string

const (
	OriginGenerated Origin = "generated" // Passed validation unmodified
	OriginRepaired  Origin = "repaired"  // Passed after deterministic repair
	OriginFallback  Origin = "fallback"  // Static fallback after failure
	OriginBlocked   Origin = "blocked"   // Static template for a blocked route
)

// Response is the single entity returned to the caller. Every non-blocked
// response carries a non-empty SourceURL; blocked responses carry the
// template's reference URL.
type Response struct {
	Answer    string `json:"answer"`
	SourceURL string `json:"source_url,omitempty"`
	Origin    Origin `json:"origin"`
	Route     Route  `json:"route,omitempty"`
}

// ValidationResult holds the per-rule outcomes for a generated answer.
// The booleans reflect the answer as received, before any repair.
type ValidationResult struct {
	CitationOK   bool     `json:"citation_ok"`
	NoAdviceOK   bool     `json:"no_advice_ok"`
	FactsOnlyOK  bool     `json:"facts_only_ok"`
	LengthOK     bool     `json:"length_ok"`
	Unrepairable bool     `json:"unrepairable,omitempty"`
	Fixes        []string `json:"fixes_applied,omitempty"`
}

// Pass reports whether all four checks passed on the original answer.
func (v ValidationResult) Pass() bool {
	return v.CitationOK && v.NoAdviceOK && v.FactsOnlyOK && v.LengthOK
}
