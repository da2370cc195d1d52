package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/postsphere/internal/platform"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Shape raw text for a platform",
	Long:  "Apply a platform's section rules to raw text read from a file or stdin. No network access.",
	RunE:  runNormalize,
}

var (
	normalizeInput    string
	normalizePlatform string
	normalizeReport   bool
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to input text file (default: stdin)")
	normalizeCmd.Flags().StringVarP(&normalizePlatform, "platform", "p", "", "Target platform (required)")
	normalizeCmd.Flags().BoolVar(&normalizeReport, "report", false, "Print the post with its length and hashtag report as JSON")

	if err := normalizeCmd.MarkFlagRequired("platform"); err != nil {
		panic(fmt.Sprintf("failed to mark platform flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, normalizeInput)
	if err != nil {
		return err
	}

	id := platform.ID(normalizePlatform)
	post := platform.Normalize(string(raw), id)

	out := cmd.OutOrStdout()
	if !normalizeReport {
		fmt.Fprintln(out, post)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"post":   post,
		"report": platform.Analyze(post, id),
	})
}

// readInput reads path, or the command's stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}
