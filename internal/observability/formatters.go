// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/generation"
	"github.com/jonathan/postsphere/internal/platform"
)

// boxWidth is the width of formatted output boxes
const boxWidth = 60

// Printer renders previews and summaries as boxed text
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
// Long lines are wrapped rather than cut so previews stay complete.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, chunk := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(chunk, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintVariant outputs a generated post with its length and hashtag usage.
func (p *Printer) PrintVariant(v *generation.Variant) {
	if v == nil {
		return
	}

	name := string(v.Platform)
	if rules, ok := platform.Lookup(v.Platform); ok {
		name = rules.Name
	}

	var sb strings.Builder
	sb.WriteString(v.Content)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Characters: %d/%d", v.Report.Characters, v.Report.MaxLength))
	if v.Report.OverLength {
		sb.WriteString("  (over limit)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Hashtags:   %d/%d", v.Report.Hashtags, v.Report.HashtagLimit))
	if v.Report.TooManyHashtags {
		sb.WriteString("  (too many)")
	}

	p.printBox(strings.ToUpper(name), sb.String())
}

// PrintBatch outputs every variant in ids order followed by a failure list.
func (p *Printer) PrintBatch(batch generation.Batch, ids []platform.ID) {
	for _, id := range ids {
		if v, ok := batch.Variants[id]; ok {
			p.PrintVariant(&v)
		}
	}
	if len(batch.Errors) == 0 {
		return
	}

	failed := make([]string, 0, len(batch.Errors))
	for id, err := range batch.Errors {
		failed = append(failed, fmt.Sprintf("• %s: %v", id, err))
	}
	sort.Strings(failed)
	p.printBox("FAILED PLATFORMS", strings.Join(failed, "\n"))
}

// PrintState outputs a human-readable summary of a dashboard view-model.
func (p *Printer) PrintState(vm *dashboard.ViewModel) {
	if vm == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:    %s (version %d)\n", vm.Status, vm.Version))

	platforms := make([]string, len(vm.SelectedPlatforms))
	for i, id := range vm.SelectedPlatforms {
		platforms[i] = string(id)
	}
	if len(platforms) == 0 {
		platforms = []string{"none"}
	}
	sb.WriteString(fmt.Sprintf("Platforms: %s\n", strings.Join(platforms, ", ")))

	if vm.ScheduleDate != nil {
		sb.WriteString(fmt.Sprintf("Scheduled: %s\n", vm.ScheduleDate.Format("2006-01-02 15:04 MST")))
	}
	if vm.Media != nil {
		sb.WriteString(fmt.Sprintf("Media:     %s (%s)\n", vm.Media.Name, vm.Media.ContentType))
	}

	base := vm.BaseContent
	if base == "" {
		base = "(empty)"
	}
	sb.WriteString(fmt.Sprintf("\nBase content:\n  %s\n", truncate(base, 50)))

	if len(vm.Generated) > 0 {
		sb.WriteString("\nGenerated:\n")
		for _, id := range platform.IDs() {
			text, ok := vm.Generated[id]
			if !ok {
				continue
			}
			text = strings.ReplaceAll(text, "\n", " ")
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", id, truncate(text, 40)))
		}
	}

	p.printBox("DASHBOARD STATE", strings.TrimSuffix(sb.String(), "\n"))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func wrap(line string, width int) []string {
	r := []rune(line)
	if len(r) <= width {
		return []string{line}
	}
	var chunks []string
	for len(r) > width {
		chunks = append(chunks, string(r[:width]))
		r = r[width:]
	}
	return append(chunks, string(r))
}
