package model

// RetrievedChunk is one ranked result from the external vector store.
// The core only reads it; ownership stays with the retriever.
type RetrievedChunk struct {
	ID        string  `json:"id,omitempty"`
	Text      string  `json:"text"`
	SourceURL string  `json:"source_url,omitempty"`
	Scheme    string  `json:"scheme_name,omitempty"`
	DocType   string  `json:"document_type,omitempty"` // e.g. "scheme_details", "groww_listing"
	Score     float64 `json:"score"`                   // Relevance from the vector store
	Reranked  float64 `json:"reranked_score,omitempty"`
}

// AssembledContext is the deduplicated, budget-bounded context handed to the
// generation model. Built fresh per request and never mutated afterwards.
type AssembledContext struct {
	Chunks     []RetrievedChunk `json:"chunks,omitempty"`
	Body       string           `json:"body"`
	SourceURLs []string         `json:"source_urls,omitempty"` // Distinct, first-seen order
	Tokens     int              `json:"tokens"`                // Estimated tokens in Body
}

// Empty reports whether no chunk survived assembly. Downstream must treat
// this as "no context available" and fall back rather than generate.
func (c AssembledContext) Empty() bool {
	return c.Body == ""
}

// PrimaryURL returns the first-seen source URL, or "" if none.
func (c AssembledContext) PrimaryURL() string {
	if len(c.SourceURLs) == 0 {
		return ""
	}
	return c.SourceURLs[0]
}
