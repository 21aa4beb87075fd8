package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdulachik/trendcast/internal/config"
	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/abdulachik/trendcast/internal/trends"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one fetch cycle and print the snapshot",
	Long: `Run the trend cascade once and print the resulting snapshot as JSON.
The cycle is recorded in the history database.`,
	PreRunE: validateProviderFlag,
	RunE:    runFetch,
}

var (
	fetchLang     string
	fetchProvider string
	fetchAPIKey   string
	fetchPrompt   bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchLang, "lang", "", "Prompt language, TR or EN (default DEFAULT_LANGUAGE)")
	fetchCmd.Flags().StringVar(&fetchProvider, "provider", "", "AI fallback provider: GEMINI, OPENAI or GROK (default AI_PROVIDER)")
	fetchCmd.Flags().StringVar(&fetchAPIKey, "api-key", "", "AI fallback API key (default AI_API_KEY)")
	fetchCmd.Flags().BoolVar(&fetchPrompt, "prompt", false, "Print the prompt fragment instead of JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if fetchProvider != "" {
		cfg.AIProvider = fetchProvider
	}
	if fetchAPIKey != "" {
		cfg.AIAPIKey = fetchAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if err := cfg.ValidateForFetching(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lang := cfg.DefaultLanguage
	if fetchLang != "" {
		lang = fetchLang
	}

	cred := cfg.ServerCredential()
	req := trends.Request{
		Language: trends.ParseLanguage(lang),
		APIKey:   cred.APIKey,
		Provider: cred.Provider,
	}

	data := newTrendService(cfg, store).FetchTrends(ctx, req)

	if fetchPrompt {
		out := trends.FormatForPrompt(data, req.Language)
		if out == "" {
			fmt.Fprintln(os.Stderr, "no usable trends (source:", data.Source.String()+")")
			return nil
		}
		fmt.Print(out)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// validateProviderFlag rejects an unknown --provider early with a friendly message.
func validateProviderFlag(cmd *cobra.Command, args []string) error {
	if fetchProvider == "" {
		return nil
	}
	if _, err := llm.ParseProvider(fetchProvider); err != nil {
		return fmt.Errorf("--provider: %w", err)
	}
	return nil
}
