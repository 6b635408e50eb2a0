// Package patterns holds the static keyword and regex tables the classifier,
// expander, and validator match against. Everything here is read-only after
// process start; nothing in this package carries per-request state.
package patterns

import (
	"regexp"

	"github.com/fundfaq/fundfaq/internal/model"
)

// IntentKeywords maps each factual intent to the phrases that signal it.
// Matching is case-insensitive substring matching over the normalized query.
var IntentKeywords = map[model.Intent][]string{
	model.IntentExpenseRatio: {
		"expense ratio", "expense", "charges", "fee", "ter",
		"total expense ratio", "amc charges", "management fee",
	},
	model.IntentExitLoad: {
		"exit load", "redemption charge", "withdrawal charge",
		"exit fee", "redemption fee", "early withdrawal", "withdrawal penalty",
	},
	model.IntentMinimumSIP: {
		"minimum sip", "sip amount", "minimum investment",
		"sip minimum", "minimum monthly", "least amount sip",
	},
	model.IntentLockIn: {
		"lock in", "lock-in", "lockin", "lock period",
		"holding period", "minimum holding", "elss lock", "tax saver lock",
	},
	model.IntentRiskometer: {
		"riskometer", "risk rating", "risk level", "risk profile",
		"risk category", "what is the risk", "risk assessment",
	},
	model.IntentBenchmark: {
		"benchmark", "benchmark index", "tracking index",
		"what benchmark", "index fund tracks",
	},
	model.IntentStatement: {
		"statement", "download", "capital gains", "tax document",
		"how to download", "tax statement",
	},
	model.IntentNAV: {
		"nav", "net asset value", "current nav", "nav price", "current price",
	},
	model.IntentAUM: {
		"aum", "assets under management", "fund size", "total assets",
	},
	model.IntentFundManager: {
		"fund manager", "who manages", "manager name",
	},
	model.IntentInvestmentObjective: {
		"investment objective", "objective", "fund objective", "aim of fund",
	},
	model.IntentSchemeDetails: {
		"scheme details", "fund details", "about the fund", "fund information",
	},
}

// intentOrder fixes the matching priority so classification stays
// deterministic regardless of map iteration order. More specific intents
// come before the catch-all scheme_details.
var intentOrder = []model.Intent{
	model.IntentExpenseRatio,
	model.IntentExitLoad,
	model.IntentMinimumSIP,
	model.IntentLockIn,
	model.IntentRiskometer,
	model.IntentBenchmark,
	model.IntentStatement,
	model.IntentNAV,
	model.IntentAUM,
	model.IntentFundManager,
	model.IntentInvestmentObjective,
	model.IntentSchemeDetails,
}

// IntentOrder returns the intents in matching priority order.
func IntentOrder() []model.Intent {
	return intentOrder
}

// IntentPatterns holds each intent keyword compiled with word boundaries,
// so short keywords like "ter" or "nav" never match inside longer words.
var IntentPatterns = map[model.Intent][]*regexp.Regexp{}

func init() {
	for intent, kws := range IntentKeywords {
		for _, kw := range kws {
			IntentPatterns[intent] = append(IntentPatterns[intent],
				regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
}

// Synonyms maps each intent to retrieval-expansion terms. The expander
// appends at most two of these; it never replaces query terms.
var Synonyms = map[model.Intent][]string{
	model.IntentExpenseRatio: {"ter", "total expense ratio", "charges"},
	model.IntentExitLoad:     {"redemption charge", "withdrawal charge"},
	model.IntentMinimumSIP:   {"minimum systematic investment plan", "least sip"},
	model.IntentLockIn:       {"lock-in period", "holding period"},
	model.IntentRiskometer:   {"risk level", "risk rating"},
	model.IntentBenchmark:    {"index", "comparison index"},
	model.IntentNAV:          {"net asset value", "unit price"},
	model.IntentAUM:          {"assets under management", "fund size"},
	model.IntentStatement:    {"account statement", "download statement"},
}

// NonMFKeywords flag topics outside mutual funds: stocks, other investment
// products, general finance, and plainly unrelated chatter.
var NonMFKeywords = []string{
	"stock", "share", "equity trading", "sensex",
	"ipo", "dividend stock", "share price",
	"fixed deposit", "recurring deposit",
	"ppf", "epf", "provident fund", "pension",
	"real estate", "property", "gold price", "crypto",
	"bitcoin", "cryptocurrency",
	"loan", "credit card", "insurance", "health insurance",
	"life insurance", "term insurance",
	"weather", "news", "sports", "movie", "recipe",
}

// MFTerms anchor a query to the mutual-fund domain. A query containing any
// of these is never classified non_mf on the length heuristic alone.
var MFTerms = []string{
	"mutual fund", "mf", "scheme", "fund", "sip",
	"invest", "elss", "nav", "amc", "amfi", "sebi",
}

// AdviceKeywords flag advice-seeking phrasing in queries and in generated
// answers. Matching is case-insensitive substring matching.
var AdviceKeywords = []string{
	"should i", "should we", "should one", "should someone",
	"is it good", "is it bad", "is it worth", "is it safe",
	"is it risky", "is it better", "is it best",
	"recommend", "recommendation", "suggest", "suggestion",
	"advice", "what should", "what do you think",
	"your opinion", "your view",
	"best fund", "top fund", "worst fund", "better than",
	"buy", "sell", "invest in", "should invest", "worth investing",
	"good investment", "bad investment", "invest now",
	"when to invest", "when to sell", "when to buy",
	"future returns", "expected returns",
	"prediction", "forecast", "outlook", "future performance",
	"for me", "for my", "suitable for", "right for me",
	"portfolio", "allocation", "diversification", "how much to invest",
	"asset allocation", "rebalance", "rebalancing",
}

// AdvicePatterns catch advice questions that keyword matching misses.
var AdvicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`should (i|we|one|someone)`),
	regexp.MustCompile(`is (it|this|that) (good|bad|worth|safe|better|best)`),
	regexp.MustCompile(`what (should|do you recommend|is your opinion)`),
	regexp.MustCompile(`which (is better|should i choose|is best)`),
}

// JailbreakPatterns catch attempts to manipulate the generation model:
// instruction overrides, role-play directives, system-prompt injection,
// encoding tricks, hidden instructions, and zero-width characters.
var JailbreakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ignore (previous|all) (instructions|rules)`),
	regexp.MustCompile(`forget (about|that)`),
	regexp.MustCompile(`pretend (you are|to be)`),
	regexp.MustCompile(`act as if`),
	regexp.MustCompile(`you are now`),
	regexp.MustCompile(`you are (a|an) (advisor|financial advisor|expert)`),
	regexp.MustCompile(`imagine (you are|that)`),
	regexp.MustCompile(`system:`),
	regexp.MustCompile(`system prompt:`),
	regexp.MustCompile(`<\|system\|>`),
	regexp.MustCompile(`decode (this|the following)`),
	regexp.MustCompile(`translate (this|from)`),
	regexp.MustCompile(`\[[^\]]*instruction[^\]]*\]`),
	regexp.MustCompile(`\([^)]*ignore[^)]*\)`),
	regexp.MustCompile("[\u200b-\u200d\ufeff]"),
}

// OpinionWords are advice-adjacent terms a factual answer must not contain.
// The validator checks these on word boundaries.
var OpinionWords = []string{
	"good", "bad", "best", "worst", "should", "recommend",
}

// SubjectiveAdjectives are judgment-carrying words that violate the
// facts-only rule even outside advice phrasing.
var SubjectiveAdjectives = []string{
	"amazing", "excellent", "great", "terrible", "fantastic",
	"wonderful", "impressive", "definitely", "best", "worst",
}

// FirstPersonMarkers flag opinionated first-person framing in answers.
var FirstPersonMarkers = []string{
	"i think", "i believe", "i feel", "in my opinion", "personally",
}

// CitationPatterns recognize an explicit source citation in an answer.
var CitationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`last updated from sources?`),
	regexp.MustCompile(`sources?:`),
	regexp.MustCompile(`from (the )?sources?`),
	regexp.MustCompile(`according to (the )?sources?`),
	regexp.MustCompile(`per (the )?sources?`),
}

// URLPattern matches http(s) URLs embedded in an answer.
var URLPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
