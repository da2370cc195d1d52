package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/postsphere/internal/platform"
	"github.com/spf13/cobra"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms and their rules",
	RunE:  runPlatforms,
}

var platformsJSON bool

func init() {
	platformsCmd.Flags().BoolVar(&platformsJSON, "json", false, "Print rules as JSON")
	rootCmd.AddCommand(platformsCmd)
}

func runPlatforms(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if platformsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(platform.All())
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMAX LENGTH\tHASHTAGS\tEMOJI\tGUIDELINES")
	for _, r := range platform.All() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\n",
			r.ID, r.Name, r.MaxLength, r.HashtagLimit,
			r.Formatting.EmojiRecommended, strings.Join(r.ContentGuidelines, "; "))
	}
	return tw.Flush()
}
