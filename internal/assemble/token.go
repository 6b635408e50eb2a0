package assemble

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator approximates how many model tokens a text consumes. The budget
// check only needs a consistent estimate, not an exact count.
type Estimator interface {
	Estimate(text string) int
}

// CharEstimator uses the rough 4-characters-per-token heuristic.
type CharEstimator struct{}

func (CharEstimator) Estimate(text string) int {
	return (len(text) + 3) / 4
}

// TiktokenEstimator counts exact tokens with a tiktoken encoding. Slower
// than CharEstimator but removes the guesswork for tight budgets.
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the named encoding (default cl100k_base).
func NewTiktokenEstimator(encoding string) (*TiktokenEstimator, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &TiktokenEstimator{enc: enc}, nil
}

func (e *TiktokenEstimator) Estimate(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

// NewEstimator builds an estimator from configuration.
func NewEstimator(kind, encoding string) (Estimator, error) {
	switch kind {
	case "", "chars":
		return CharEstimator{}, nil
	case "tiktoken":
		return NewTiktokenEstimator(encoding)
	default:
		return nil, fmt.Errorf("unknown token estimator: %q", kind)
	}
}
