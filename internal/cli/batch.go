package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundfaq/fundfaq/internal/pipeline"
	"github.com/fundfaq/fundfaq/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	batchOutput  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer multiple questions from a file in parallel",
	Long: `Batch answers multiple queries concurrently:
- Read queries from input file (one per line, # comments ignored)
- Process queries in parallel with configurable worker count
- Results preserve the input order
- Write results as a JSON array to stdout or a file

Example:
  fundfaq batch queries.txt
  fundfaq batch queries.txt --concurrency 8 --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output file for JSON results (default: stdout)")

	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	batchCmd.Flags().StringVar(&retrieverURL, "retriever-url", "", "vector search service base URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable retrieval cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	p, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency, logger)

	if verbose {
		fmt.Fprintf(os.Stderr, "Input file: %s\n", file)
		fmt.Fprintf(os.Stderr, "Workers:    %d\n", concurrency)
		fmt.Fprintf(os.Stderr, "Timeout:    %v\n", batchTimeout)
		fmt.Fprintln(os.Stderr)
	}

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if batchOutput != "" {
		if err := os.WriteFile(batchOutput, data, 0644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d results to %s\n", len(results), batchOutput)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
