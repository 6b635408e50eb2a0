// Package retrieve defines the contract with the external vector-search
// service and provides an HTTP client plus lexical re-ranking of results.
package retrieve

import (
	"context"
	"errors"

	"github.com/fundfaq/fundfaq/internal/model"
)

// ErrNoResults is returned when the service answers successfully but holds
// nothing relevant. Callers treat it like any other retrieval failure: fall
// back, never generate without context.
var ErrNoResults = errors.New("retrieval returned no chunks")

// Retriever is the external vector-search collaborator. Implementations
// must return chunks ranked by relevance descending and tolerate an empty
// scheme filter.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int, scheme string) ([]model.RetrievedChunk, error)
}
