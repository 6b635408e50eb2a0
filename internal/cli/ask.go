package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/pipeline"
)

var (
	askTimeout   time.Duration
	llmProvider  string
	llmModel     string
	retrieverURL string
	noCache      bool
	outputJSON   bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer a single mutual fund question",
	Long: `Ask answers one factual question about SBI Mutual Fund schemes:
- Classify the query (factual, advice, off-topic, prompt injection)
- Retrieve relevant document chunks for factual queries
- Generate a cited, fact-only answer bounded to three sentences
- Fall back to a safe static response on any failure

Example:
  fundfaq ask "What is the expense ratio of SBI Small Cap Fund?"
  fundfaq ask "Minimum SIP for SBI Large Cap Fund?" --json
  fundfaq ask "How do I download my statement?" --llm-provider ollama --llm-model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().DurationVar(&askTimeout, "timeout", 30*time.Second, "overall timeout for the query")
	askCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, ollama)")
	askCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	askCmd.Flags().StringVar(&retrieverURL, "retriever-url", "", "vector search service base URL")
	askCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable retrieval cache")
	askCmd.Flags().BoolVar(&outputJSON, "json", false, "print the response as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
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

	resp := p.Answer(ctx, query)
	return printResponse(resp)
}

// loadConfig merges defaults, the config file, environment variables, and
// flags into the runtime configuration.
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if retrieverURL != "" {
		cfg.Retriever.BaseURL = retrieverURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose

	// Get API keys from environment
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return cfg, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	if cfg.Retriever.APIKey == "" {
		cfg.Retriever.APIKey = os.Getenv("FUNDFAQ_RETRIEVER_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printResponse(resp *model.Response) error {
	if outputJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(resp.Answer)
	if resp.SourceURL != "" {
		fmt.Printf("\nSource: %s\n", resp.SourceURL)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "route=%s origin=%s\n", resp.Route, resp.Origin)
	}
	return nil
}
