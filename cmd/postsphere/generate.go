package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/postsphere/internal/observability"
	"github.com/jonathan/postsphere/internal/platform"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft posts for one or more platforms",
	Long:  "Generate a platform-specific post for each selected platform from a base theme, normalized to each platform's conventions.",
	RunE:  runGenerate,
}

var (
	generateContent   string
	generatePlatforms []string
	generateJSON      bool
	generateTimeout   time.Duration
)

func init() {
	generateCmd.Flags().StringVarP(&generateContent, "content", "c", "", "Base content or theme (empty uses a general topic)")
	generateCmd.Flags().StringSliceVarP(&generatePlatforms, "platform", "p", nil, "Target platforms (default: all)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print variants as JSON")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 2*time.Minute, "Overall generation timeout")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ids, err := parsePlatforms(generatePlatforms)
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	gen, client, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	batch := gen.GenerateAll(ctx, generateContent, ids)

	out := cmd.OutOrStdout()
	if generateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch.Variants); err != nil {
			return fmt.Errorf("failed to encode variants: %w", err)
		}
		for _, id := range ids {
			if err, ok := batch.Errors[id]; ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", id, err)
			}
		}
	} else {
		observability.NewPrinter(out).PrintBatch(batch, ids)
	}

	if len(batch.Variants) == 0 {
		return fmt.Errorf("failed to generate content for any platform")
	}
	return nil
}

// parsePlatforms converts flag values to known platform ids, defaulting to all.
func parsePlatforms(values []string) ([]platform.ID, error) {
	if len(values) == 0 {
		return platform.IDs(), nil
	}
	ids := make([]platform.ID, 0, len(values))
	for _, v := range values {
		id := platform.ID(v)
		if !platform.Known(id) {
			return nil, fmt.Errorf("unknown platform %q (known: %v)", v, platform.IDs())
		}
		ids = append(ids, id)
	}
	return ids, nil
}
