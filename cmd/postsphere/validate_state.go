package main

import (
	"fmt"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/observability"
	"github.com/spf13/cobra"
)

var validateStateCmd = &cobra.Command{
	Use:   "validate-state",
	Short: "Validate a serialized dashboard state",
	Long:  "Check a dashboard view-model JSON document against the view-model schema and structural rules.",
	RunE:  runValidateState,
}

var validateStateInput string

func init() {
	validateStateCmd.Flags().StringVarP(&validateStateInput, "in", "i", "", "Path to state JSON file (default: stdin)")
	rootCmd.AddCommand(validateStateCmd)
}

func runValidateState(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, validateStateInput)
	if err != nil {
		return err
	}

	vm, err := dashboard.Restore(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "State is valid")
	observability.NewPrinter(out).PrintState(vm)
	return nil
}
