// Package assemble turns ranked retrieval results into a bounded context for
// the generation model: dedupe, budget enforcement, and source attribution.
package assemble

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/fundfaq/fundfaq/internal/model"
)

// Assembler builds an AssembledContext under a chunk count and token budget.
type Assembler struct {
	maxChunks int
	maxTokens int
	est       Estimator
}

// New creates an assembler. A nil estimator falls back to CharEstimator.
func New(maxChunks, maxTokens int, est Estimator) *Assembler {
	if est == nil {
		est = CharEstimator{}
	}
	return &Assembler{maxChunks: maxChunks, maxTokens: maxTokens, est: est}
}

// Assemble takes chunks in the order supplied (already ranked), includes at
// most maxChunks after deduplication, and appends whole chunk texts while
// the token estimate stays under budget. A chunk that would exceed the
// budget is excluded entirely rather than cut mid-text. Zero usable chunks
// yield an empty context; callers must fall back instead of generating.
func (a *Assembler) Assemble(chunks []model.RetrievedChunk) model.AssembledContext {
	var (
		included []model.RetrievedChunk
		parts    []string
		urls     []string
		seenURL  = make(map[string]bool)
		seenDup  = make(map[string]bool)
		tokens   int
	)

	for _, chunk := range chunks {
		if len(included) >= a.maxChunks {
			break
		}

		text := strings.TrimSpace(stripMarkup(chunk.Text))
		if text == "" {
			continue
		}

		// Skip near-duplicates: same source URL and near-identical text.
		if key := dedupeKey(chunk.SourceURL, text); seenDup[key] {
			continue
		} else {
			seenDup[key] = true
		}

		part := fmt.Sprintf("[Chunk %d]\n%s", len(included)+1, text)
		cost := a.est.Estimate(part)
		if tokens+cost > a.maxTokens {
			break
		}

		tokens += cost
		parts = append(parts, part)
		chunk.Text = text
		included = append(included, chunk)

		if u := strings.TrimSpace(chunk.SourceURL); u != "" && !seenURL[u] {
			seenURL[u] = true
			urls = append(urls, u)
		}
	}

	return model.AssembledContext{
		Chunks:     included,
		Body:       strings.Join(parts, "\n\n"),
		SourceURLs: urls,
		Tokens:     tokens,
	}
}

// dedupeKey identifies near-identical chunks: same URL plus the first 120
// characters of whitespace-normalized lowercase text.
func dedupeKey(url, text string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(norm) > 120 {
		norm = norm[:120]
	}
	return url + "|" + norm
}

// stripMarkup removes residual HTML from chunk text. Chunks originate from
// scraped pages and occasionally carry tags through the ingestion pipeline.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return buf.String()
}
