// Package pipeline wires classification, retrieval, assembly, generation,
// and validation into the single Answer operation. Every query receives a
// response: internal failures degrade to static fallbacks and are never
// propagated to the caller.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/fundfaq/fundfaq/internal/assemble"
	"github.com/fundfaq/fundfaq/internal/cache"
	"github.com/fundfaq/fundfaq/internal/classify"
	"github.com/fundfaq/fundfaq/internal/expand"
	"github.com/fundfaq/fundfaq/internal/llm"
	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/patterns"
	"github.com/fundfaq/fundfaq/internal/retrieve"
	"github.com/fundfaq/fundfaq/internal/validate"
)

// Pipeline orchestrates the full query-to-answer flow.
type Pipeline struct {
	classifier *classify.Classifier
	assembler  *assemble.Assembler
	validator  *validate.Validator
	retriever  retrieve.Retriever
	generator  llm.Provider
	genLimiter *rate.Limiter
	cfg        model.Config
	log        *slog.Logger
}

// New wires a pipeline from pre-built collaborators. It verifies the
// static templates and the configuration up front; nothing past this point
// returns an error to the caller.
func New(cfg model.Config, retriever retrieve.Retriever, generator llm.Provider, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := patterns.Verify(); err != nil {
		return nil, fmt.Errorf("template verification: %w", err)
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	est, err := assemble.NewEstimator(cfg.Context.Estimator, cfg.Context.Encoding)
	if err != nil {
		return nil, fmt.Errorf("token estimator: %w", err)
	}

	p := &Pipeline{
		classifier: classify.New(),
		assembler:  assemble.New(cfg.Context.MaxChunks, cfg.Context.MaxTokens, est),
		validator:  validate.New(cfg.Context.MaxSentences, patterns.DefaultSourceURL),
		retriever:  retriever,
		generator:  generator,
		cfg:        cfg,
		log:        logger,
	}
	if cfg.RateLimit.GeneratorRPS > 0 {
		p.genLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.GeneratorRPS), cfg.RateLimit.Burst)
	}
	return p, nil
}

// NewFromConfig builds the standard pipeline: HTTP retrieval client with
// cache and rate limiting, plus the configured generation provider.
func NewFromConfig(cfg model.Config, logger *slog.Logger) (*Pipeline, error) {
	opts := []retrieve.ClientOption{retrieve.WithLogger(logger)}
	if cfg.Cache.Enabled {
		opts = append(opts, retrieve.WithCache(cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL), cfg.Cache.TTL))
	}
	if cfg.RateLimit.RetrieverRPS > 0 {
		opts = append(opts, retrieve.WithRateLimit(cfg.RateLimit.RetrieverRPS, cfg.RateLimit.Burst))
	}
	retriever := retrieve.NewClient(cfg.Retriever, opts...)

	generator, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("generation provider: %w", err)
	}

	return New(cfg, retriever, generator, logger)
}

// Answer processes a single query end to end. It always returns a response:
// blocked routes get their template without any external call, and any
// retrieval, generation, or validation failure degrades to the static
// fallback.
func (p *Pipeline) Answer(ctx context.Context, query string) *model.Response {
	start := time.Now()
	cls := p.classifier.Classify(query)
	p.log.Debug("classified query",
		"route", string(cls.Route), "scheme", cls.Scheme,
		"intent", string(cls.Intent), "rule", cls.Rule)

	if cls.Route.Blocked() {
		return p.blocked(cls)
	}

	normalized := classify.Normalize(query)
	expanded := expand.Expand(normalized, cls.Intent)

	assembled, ok := p.retrieveContext(ctx, expanded, cls.Scheme)
	if !ok {
		return p.fallback(cls, assembled)
	}

	resp := p.generate(ctx, assembled, normalized, cls)
	p.log.Debug("answered query",
		"route", string(cls.Route), "origin", string(resp.Origin),
		"elapsed", time.Since(start))
	return resp
}

// blocked returns the canned template for a non-factual route. No retrieval
// and no generation ever happen on these routes.
func (p *Pipeline) blocked(cls model.Classification) *model.Response {
	if cls.Route == model.RouteSchemeUnavailable {
		t := patterns.SchemeUnavailableTemplate(cls.Scheme)
		return &model.Response{
			Answer:    t.Answer,
			SourceURL: t.SourceURL,
			Origin:    model.OriginBlocked,
			Route:     cls.Route,
		}
	}
	t, _ := patterns.TemplateFor(cls.Route)
	return &model.Response{
		Answer:    t.Answer,
		SourceURL: t.SourceURL,
		Origin:    model.OriginBlocked,
		Route:     cls.Route,
	}
}

// retrieveContext runs retrieval with retry, reranks, and assembles the
// context. It reports ok=false when no usable context could be built.
func (p *Pipeline) retrieveContext(ctx context.Context, query, scheme string) (model.AssembledContext, bool) {
	chunks, err := withRetry(ctx, p.cfg.Retriever.MaxAttempts, p.cfg.Retriever.Backoff,
		func(ctx context.Context) ([]model.RetrievedChunk, error) {
			return p.retriever.Retrieve(ctx, query, p.cfg.Retriever.TopK, scheme)
		})
	if err != nil {
		if err == retrieve.ErrNoResults {
			p.log.Debug("retrieval returned no results", "scheme", scheme)
		} else {
			p.log.Warn("retrieval failed", "error", err)
		}
		return model.AssembledContext{}, false
	}

	assembled := p.assembler.Assemble(retrieve.Rerank(chunks, query))
	if assembled.Empty() {
		p.log.Debug("assembled context is empty", "chunks_in", len(chunks))
		return assembled, false
	}
	return assembled, true
}

// generate runs the bounded generate-validate-repair loop. Every attempt
// that yields an unrepairable answer counts against the budget; exhausting
// it degrades to the fallback.
func (p *Pipeline) generate(ctx context.Context, assembled model.AssembledContext, query string, cls model.Classification) *model.Response {
	req := llm.Request{
		System:      patterns.SystemPrompt,
		Context:     assembled.Body,
		Query:       query,
		Model:       p.cfg.LLM.Model,
		MaxTokens:   p.cfg.LLM.MaxTokens,
		Temperature: p.cfg.LLM.Temperature,
	}

	for attempt := 1; attempt <= p.cfg.LLM.MaxAttempts; attempt++ {
		if attempt > 1 {
			sleepFunc(p.cfg.LLM.Backoff * time.Duration(1<<(attempt-2)))
		}
		if err := ctx.Err(); err != nil {
			break
		}
		if p.genLimiter != nil {
			if err := p.genLimiter.Wait(ctx); err != nil {
				break
			}
		}

		out, err := p.generateOnce(ctx, req)
		if err != nil {
			p.log.Warn("generation failed", "attempt", attempt, "error", err)
			continue
		}

		resp, result := p.validator.ValidateAndRepair(out.Text, assembled)
		if result.Unrepairable {
			p.log.Warn("answer unrepairable", "attempt", attempt, "fixes", result.Fixes)
			continue
		}
		if len(result.Fixes) > 0 {
			p.log.Debug("answer repaired", "fixes", result.Fixes)
		}
		resp.Route = cls.Route
		return &resp
	}

	return p.fallback(cls, assembled)
}

// generateOnce issues a single provider call under the per-attempt timeout.
// The timeout context is released as soon as the attempt returns.
func (p *Pipeline) generateOnce(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if p.cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.LLM.Timeout)
		defer cancel()
	}
	return p.generator.Generate(ctx, req)
}

// fallback is the terminal degradation path: a static apology that never
// echoes retrieved text.
func (p *Pipeline) fallback(cls model.Classification, assembled model.AssembledContext) *model.Response {
	url := assembled.PrimaryURL()
	if url == "" {
		url = patterns.DefaultSourceURL
	}
	return &model.Response{
		Answer:    patterns.FallbackAnswer(cls.Scheme),
		SourceURL: url,
		Origin:    model.OriginFallback,
		Route:     cls.Route,
	}
}
