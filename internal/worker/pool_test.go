package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fundfaq/fundfaq/internal/model"
)

type fakeAnswerer struct {
	mu     sync.Mutex
	active int
	peak   int
	delay  time.Duration
}

func (f *fakeAnswerer) Answer(ctx context.Context, query string) *model.Response {
	f.mu.Lock()
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	return &model.Response{
		Answer: "answer to " + query,
		Origin: model.OriginGenerated,
		Route:  model.RouteFactual,
	}
}

func TestBatchProcessor_PreservesOrder(t *testing.T) {
	queries := make([]string, 20)
	for i := range queries {
		queries[i] = fmt.Sprintf("query %02d", i)
	}

	p := NewBatchProcessor(&fakeAnswerer{}, 4, nil)
	results := p.ProcessQueries(context.Background(), queries)

	if len(results) != len(queries) {
		t.Fatalf("Expected %d results, got %d", len(queries), len(results))
	}
	for i, r := range results {
		if r.Query != queries[i] {
			t.Errorf("Result %d: expected query %q, got %q", i, queries[i], r.Query)
		}
		if r.Response == nil || r.Response.Answer != "answer to "+queries[i] {
			t.Errorf("Result %d: response does not match its query: %+v", i, r.Response)
		}
	}
}

func TestBatchProcessor_BoundedConcurrency(t *testing.T) {
	f := &fakeAnswerer{delay: 10 * time.Millisecond}
	p := NewBatchProcessor(f, 3, nil)

	queries := make([]string, 12)
	for i := range queries {
		queries[i] = fmt.Sprintf("q%d", i)
	}
	p.ProcessQueries(context.Background(), queries)

	if f.peak > 3 {
		t.Errorf("Expected at most 3 concurrent queries, observed %d", f.peak)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	p := NewBatchProcessor(&fakeAnswerer{}, 2, nil)
	if results := p.ProcessQueries(context.Background(), nil); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := `# sample queries
What is the expense ratio of SBI Small Cap Fund?

What is the exit load?
What is the expense ratio of SBI Small Cap Fund?
  What is the minimum SIP?
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{
		"What is the expense ratio of SBI Small Cap Fund?",
		"What is the exit load?",
		"What is the minimum SIP?",
	}
	if len(queries) != len(want) {
		t.Fatalf("Expected %d queries, got %v", len(want), queries)
	}
	for i, q := range want {
		if queries[i] != q {
			t.Errorf("Query %d: expected %q, got %q", i, q, queries[i])
		}
	}
}

func TestReadQueriesFromFile_Missing(t *testing.T) {
	if _, err := ReadQueriesFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestProcessFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewBatchProcessor(&fakeAnswerer{}, 2, nil)
	if _, err := p.ProcessFile(context.Background(), path); err == nil {
		t.Error("Expected error for file with no queries")
	}
}
