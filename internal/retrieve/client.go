package retrieve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fundfaq/fundfaq/internal/cache"
	"github.com/fundfaq/fundfaq/internal/model"
)

// Client queries the vector-search service over HTTP. Results are cached
// per query+filter and requests are rate limited client-side.
type Client struct {
	baseURL    string
	apiKey     string
	index      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithCache enables caching of retrieval results.
func WithCache(c cache.Cache, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithRateLimit throttles outgoing requests.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(cl *Client) {
		if rps > 0 {
			cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.log = log
	}
}

// NewClient creates a retrieval client for the given service endpoint.
func NewClient(cfg model.RetrieverConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		index:      cfg.Index,
		httpClient: &http.Client{Timeout: timeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the vector-search query endpoint.
type queryRequest struct {
	Index  string       `json:"index,omitempty"`
	Query  string       `json:"query"`
	TopK   int          `json:"top_k"`
	Filter *queryFilter `json:"filter,omitempty"`
}

type queryFilter struct {
	SchemeName string `json:"scheme_name"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type queryMatch struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Metadata struct {
		Text         string `json:"text"`
		SourceURL    string `json:"source_url"`
		SchemeName   string `json:"scheme_name"`
		DocumentType string `json:"document_type"`
	} `json:"metadata"`
}

type queryError struct {
	Error string `json:"error"`
}

// Retrieve queries the service and returns ranked chunks. An empty scheme
// disables metadata filtering. A successful call with zero matches returns
// ErrNoResults.
func (c *Client) Retrieve(ctx context.Context, query string, topK int, scheme string) ([]model.RetrievedChunk, error) {
	key := cache.Key(query, scheme)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			var chunks []model.RetrievedChunk
			if err := json.Unmarshal(data, &chunks); err == nil {
				c.log.Debug("retrieval cache hit", "chunks", len(chunks))
				return chunks, nil
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	chunks, err := c.query(ctx, query, topK, scheme)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoResults
	}

	if c.cache != nil {
		if data, err := json.Marshal(chunks); err == nil {
			_ = c.cache.Set(key, data, c.cacheTTL)
		}
	}

	c.log.Debug("retrieved chunks", "count", len(chunks), "top_score", chunks[0].Score)
	return chunks, nil
}

func (c *Client) query(ctx context.Context, query string, topK int, scheme string) ([]model.RetrievedChunk, error) {
	req := queryRequest{Index: c.index, Query: query, TopK: topK}
	if scheme != "" {
		req.Filter = &queryFilter{SchemeName: scheme}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Api-Key", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr queryError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("vector search error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("vector search error (%d)", httpResp.StatusCode)
	}

	var resp queryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	chunks := make([]model.RetrievedChunk, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		chunks = append(chunks, model.RetrievedChunk{
			ID:        m.ID,
			Text:      m.Metadata.Text,
			SourceURL: m.Metadata.SourceURL,
			Scheme:    m.Metadata.SchemeName,
			DocType:   m.Metadata.DocumentType,
			Score:     m.Score,
		})
	}
	return chunks, nil
}
