// Package worker runs many queries through the pipeline concurrently while
// preserving input order in the results.
package worker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fundfaq/fundfaq/internal/model"
)

// Answerer is the single operation the pool needs from the pipeline.
type Answerer interface {
	Answer(ctx context.Context, query string) *model.Response
}

// BatchResult pairs a query with its response.
type BatchResult struct {
	Query    string          `json:"query"`
	Response *model.Response `json:"response"`
}

// BatchProcessor answers queries concurrently with bounded parallelism.
type BatchProcessor struct {
	answerer    Answerer
	concurrency int
	log         *slog.Logger
}

// NewBatchProcessor creates a processor running at most concurrency queries
// at once.
func NewBatchProcessor(answerer Answerer, concurrency int, logger *slog.Logger) *BatchProcessor {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{answerer: answerer, concurrency: concurrency, log: logger}
}

// ProcessQueries answers all queries and returns results in input order.
// Individual queries never fail; the pipeline degrades internally.
func (p *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []BatchResult {
	results := make([]BatchResult, len(queries))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p.log.Debug("processing query", "index", i)
			results[i] = BatchResult{
				Query:    query,
				Response: p.answerer.Answer(ctx, query),
			}
		}(i, query)
	}

	wg.Wait()
	return results
}

// ProcessFile reads queries from path and answers them all.
func (p *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]BatchResult, error) {
	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries found in %s", path)
	}
	return p.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads one query per line, skipping blank lines and
// comments and dropping duplicates.
func ReadQueriesFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var queries []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}
	return queries, nil
}
