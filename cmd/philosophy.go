package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// principle is one entry of the design philosophy.
type principle struct {
	title  string
	detail string
}

var principles = []principle{
	{"No Build Step Required", "Edit templates and reload the page. No bundlers, no compilation."},
	{"No Hidden Abstractions", "What you write is what runs. Templates are templates."},
	{"Template-Centered Design", "Templates are the source of truth. Components are macros imported from HTML files."},
	{"Logic in Alpine.js", "State lives in classes instantiated from x-data. Markup stays declarative."},
	{"Server Returns JSON", "Endpoints return data. State classes decide how it is shown."},
	{"HTMX for Communication", "HTMX issues requests and fires events. Responses sync into Alpine state with hx-swap=\"none\"."},
	{"Zero Magic", "Every line is visible and editable. No generated code, no build artifacts, no hidden files."},
}

var philosophyCmd = &cobra.Command{
	Use:   "philosophy",
	Short: "Display the zen-temple design philosophy",
	Long: `Display the zen-temple design philosophy.

Understanding these principles helps you build components that pass
'zen-temple validate'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		w := out(cmd)

		fmt.Fprintln(w, "zen-temple Philosophy")
		fmt.Fprintln(w, "(Zero Template - Zero Build - Zero Magic)")
		fmt.Fprintln(w)
		for i, p := range principles {
			fmt.Fprintf(w, "%d. %s\n   %s\n\n", i+1, p.title, p.detail)
		}

		fmt.Fprintln(w, "Technology Stack:")
		fmt.Fprintln(w, "  • HTMX      - Server communication and events")
		fmt.Fprintln(w, "  • Alpine.js - Reactive state and client-side logic")
		fmt.Fprintln(w, "  • Jinja     - Template rendering and composition")
		fmt.Fprintln(w, "  • Tailwind  - Styling via CDN (no build needed)")
	},
}

func init() {
	rootCmd.AddCommand(philosophyCmd)
}
