// Package main provides the postsphere CLI: the composer API server plus
// offline helpers for drafting and shaping social posts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/postsphere/internal/config"
	"github.com/jonathan/postsphere/internal/generation"
	"github.com/jonathan/postsphere/internal/llm"
	"github.com/jonathan/postsphere/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	apiKeyFlag string
)

var rootCmd = &cobra.Command{
	Use:           "postsphere",
	Short:         "Social post composer API and tools",
	Long:          "postsphere drafts platform-specific social media posts with Gemini, shapes them to each platform's conventions, and simulates scheduling and publishing.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
}

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings resolves configuration (flags over env over file) and builds the logger.
func loadSettings() (config.Config, *zap.Logger, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	cfg.Verbose = cfg.Verbose || verbose

	logger, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// newGenerator connects to Gemini and wraps the client in a Generator.
// The caller owns the returned client and must close it.
func newGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (*generation.Generator, llm.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	llmConfig := llm.DefaultConfig().WithModel(llm.TierStandard, cfg.Model)
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	gen := generation.NewGenerator(client, generation.Options{
		Tier:           llm.TierStandard,
		MaxConcurrency: cfg.MaxConcurrency,
		Logger:         logger,
	})
	return gen, client, nil
}
