package patterns

import (
	"fmt"
	"strings"

	"github.com/fundfaq/fundfaq/internal/model"
)

// Reference URLs used in templates and citations.
const (
	SEBIURL          = "https://www.sebi.gov.in/sebiweb/home/HomePage.jsp?siteLanguage=en"
	AMFIURL          = "https://www.amfiindia.com"
	DefaultSourceURL = "https://www.sbimf.com"
)

// CitationPhrase is the fixed trailing phrase every factual answer ends
// with. The validator appends it during repair when missing.
const CitationPhrase = "Last updated from sources."

// Template is a canned response for a blocked route: configuration data,
// not logic.
type Template struct {
	Answer    string
	SourceURL string
}

var templates = map[model.Route]Template{
	model.RouteAdvice: {
		Answer: "I can only provide factual information about mutual fund schemes such as " +
			"expense ratios, exit loads, minimum SIP amounts, lock-in periods, " +
			"riskometer ratings, benchmarks, and procedural questions. I cannot provide " +
			"investment advice, recommendations, or opinions. For personalized investment " +
			"advice, please consult a SEBI-registered investment advisor.",
		SourceURL: SEBIURL,
	},
	model.RouteJailbreak: {
		Answer: "I can only provide factual information about mutual fund schemes. " +
			"For investment advice, please consult a SEBI-registered investment advisor.",
		SourceURL: SEBIURL,
	},
	model.RouteNonMF: {
		Answer: "I can only answer factual questions about mutual fund schemes. " +
			"Your query seems unrelated to mutual funds. Please ask about expense ratios, " +
			"exit loads, minimum SIP amounts, lock-in periods, riskometer ratings, " +
			"benchmarks, or how to download statements.",
		SourceURL: AMFIURL,
	},
}

// TemplateFor returns the static template for a blocked route. The unknown
// route is answered with the non_mf template; it stays a distinct route only
// for observability.
func TemplateFor(route model.Route) (Template, bool) {
	if route == model.RouteUnknown {
		route = model.RouteNonMF
	}
	t, ok := templates[route]
	return t, ok
}

// SchemeUnavailableTemplate builds the response for a recognized scheme we
// hold no documents for, listing the schemes we can answer about.
func SchemeUnavailableTemplate(requested string) Template {
	return Template{
		Answer: fmt.Sprintf(
			"I don't have information about %s in my database. "+
				"I can only provide factual information about the following SBI Mutual Fund schemes: %s. "+
				"Please visit the official SBI Mutual Fund website for information about other schemes.",
			requested, strings.Join(AvailableSchemes, ", ")),
		SourceURL: DefaultSourceURL,
	}
}

// FallbackAnswer is the static "no information" response used whenever
// retrieval, generation, or validation cannot produce a trustworthy answer.
// Raw chunk text is never echoed here.
func FallbackAnswer(scheme string) string {
	if scheme != "" {
		return fmt.Sprintf(
			"I apologize, but I'm unable to generate a response for your query about %s. "+
				"Please visit the official SBI Mutual Fund website for detailed information about this scheme. %s",
			scheme, CitationPhrase)
	}
	return "I apologize, but I'm unable to generate a response for your query. " +
		"Please visit the official SBI Mutual Fund website for more information. " + CitationPhrase
}

// SystemPrompt is the instruction block sent to the generation model on the
// factual route. Blocked routes never reach the model at all.
const SystemPrompt = `You are a factual FAQ assistant for SBI Mutual Fund schemes. Your role is to provide ONLY factual information from the provided context.

CRITICAL RULES:
1. FACTS ONLY: Provide only factual information (expense ratios, exit loads, minimum SIP/lumpsum amounts, lock-in periods, riskometer ratings, benchmarks, etc.). Do NOT provide opinions, recommendations, or investment advice.
2. NO INVESTMENT ADVICE: Never suggest which fund to buy, sell, or invest in. Never provide recommendations, opinions, or predictions about fund performance.
3. SOURCE CITATION REQUIRED: Every response must end with "Last updated from sources."
4. RESPONSE FORMAT: Keep responses to 3 sentences or fewer, concise and factual, using only information found in the provided context.
5. HANDLING UNKNOWN INFO: If the context doesn't contain the requested information, say "I don't have that information in my database. Please visit the official SBI Mutual Fund website for more details."
6. NO PERFORMANCE CLAIMS: Never make claims about fund performance, returns, or future performance.
7. USE ONLY PROVIDED CONTEXT: Base your answer ONLY on the context provided. Do not use external knowledge or assumptions.

Remember: Facts only. No investment advice. Always cite sources.`

// Verify checks at startup that every blocked route has a template. A
// missing entry is a configuration error, fatal before any request is
// served.
func Verify() error {
	for _, route := range []model.Route{model.RouteAdvice, model.RouteJailbreak, model.RouteNonMF, model.RouteUnknown} {
		t, ok := TemplateFor(route)
		if !ok || t.Answer == "" || t.SourceURL == "" {
			return fmt.Errorf("missing or incomplete template for route %q", route)
		}
	}
	if len(AvailableSchemes) == 0 {
		return fmt.Errorf("available scheme list is empty")
	}
	return nil
}
