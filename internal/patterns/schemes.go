package patterns

import "regexp"

// AvailableSchemes is the fixed set of schemes with indexed documents.
// Factual answers are only possible for these.
var AvailableSchemes = []string{
	"SBI Large Cap Fund",
	"SBI Multicap Fund",
	"SBI Nifty Index Fund",
	"SBI Small Cap Fund",
	"SBI Equity Hybrid Fund",
}

// schemePattern pairs a recognizer with the canonical scheme name it maps
// to. The table also recognizes schemes we know of but have no data for, so
// the classifier can answer scheme_unavailable instead of guessing.
type schemePattern struct {
	re        *regexp.Regexp
	canonical string
}

var schemePatterns = []schemePattern{
	{regexp.MustCompile(`sbi\s+large\s+cap\s+fund`), "SBI Large Cap Fund"},
	{regexp.MustCompile(`sbi\s+blue\s?chip\s+fund`), "SBI Large Cap Fund"}, // renamed in 2023
	{regexp.MustCompile(`sbi\s+multicap\s+fund`), "SBI Multicap Fund"},
	{regexp.MustCompile(`sbi\s+nifty\s+(50\s+)?index\s+fund`), "SBI Nifty Index Fund"},
	{regexp.MustCompile(`sbi\s+small\s+cap\s+fund`), "SBI Small Cap Fund"},
	{regexp.MustCompile(`sbi\s+equity\s+hybrid\s+fund`), "SBI Equity Hybrid Fund"},
	{regexp.MustCompile(`sbi\s+elss`), "SBI ELSS Tax Saver Fund"},
	{regexp.MustCompile(`sbi\s+flexi\s?cap`), "SBI Flexi Cap Fund"},
	{regexp.MustCompile(`sbi\s+magnum\s+ultra\s+short\s+duration\s+fund`), "SBI Magnum Ultra Short Duration Fund"},
	{regexp.MustCompile(`sbi\s+magnum\s+multiplier\s+fund`), "SBI Magnum Multiplier Fund"},
	{regexp.MustCompile(`sbi\s+nifty\s+midcap\s+150\s+index\s+fund`), "SBI Nifty Midcap 150 Index Fund"},
	{regexp.MustCompile(`sbi\s+nifty\s+smallcap\s+250\s+index\s+fund`), "SBI Nifty Smallcap 250 Index Fund"},
}

// MatchScheme extracts a canonical scheme name from a normalized query.
// Returns "" when no scheme is mentioned. Longer, more specific patterns
// are listed before shorter ones so "nifty midcap 150 index" is not
// swallowed by the plain nifty index pattern.
func MatchScheme(normalized string) string {
	best := ""
	bestLen := 0
	for _, sp := range schemePatterns {
		if m := sp.re.FindString(normalized); len(m) > bestLen {
			best = sp.canonical
			bestLen = len(m)
		}
	}
	return best
}

// SchemeAvailable reports whether we hold indexed documents for the scheme.
func SchemeAvailable(canonical string) bool {
	for _, s := range AvailableSchemes {
		if s == canonical {
			return true
		}
	}
	return false
}
