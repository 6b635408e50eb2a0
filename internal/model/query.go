package model

// Route identifies the handling path assigned to a query
type Route string

const (
	RouteJailbreak         Route = "jailbreak"          // Prompt-injection or role-play attempt
	RouteAdvice            Route = "advice"             // Seeking investment advice or opinions
	RouteNonMF             Route = "non_mf"             // Unrelated to mutual funds
	RouteSchemeUnavailable Route = "scheme_unavailable" // Scheme recognized but not in our data
	RouteFactual           Route = "factual"            // Answerable from retrieved documents
	RouteUnknown           Route = "unknown"            // No rule matched; answered like non_mf
)

// Blocked reports whether the route must be answered from a static template.
// Blocked routes never reach the retriever or the generation model.
func (r Route) Blocked() bool {
	return r != RouteFactual
}

// Intent categorizes what fact a query is asking about
type Intent string

const (
	IntentExpenseRatio        Intent = "expense_ratio"
	IntentExitLoad            Intent = "exit_load"
	IntentMinimumSIP          Intent = "minimum_sip"
	IntentLockIn              Intent = "lock_in"
	IntentRiskometer          Intent = "riskometer"
	IntentBenchmark           Intent = "benchmark"
	IntentStatement           Intent = "statement"
	IntentNAV                 Intent = "nav"
	IntentAUM                 Intent = "aum"
	IntentFundManager         Intent = "fund_manager"
	IntentInvestmentObjective Intent = "investment_objective"
	IntentSchemeDetails       Intent = "scheme_details"
)

// Classification is the outcome of classifying one query.
// It is a pure function of the normalized query and the static pattern
// tables; exactly one classification is produced per query.
type Classification struct {
	Route  Route  `json:"route"`
	Scheme string `json:"scheme,omitempty"` // Canonical scheme name, empty if none detected
	Intent Intent `json:"intent,omitempty"` // Detected factual intent, empty if none
	Rule   string `json:"rule,omitempty"`   // Which rule matched (e.g. "jailbreak:override")
}
