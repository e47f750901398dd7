package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders md for the terminal, or returns it as is with -plain.
// Rendering errors fall back to the raw markdown.
func renderMarkdown(md string) string {
	if *plain {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot render markdown: %v\n", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot render markdown: %v\n", err)
		return md
	}
	return out
}

// printMarkdown prints md to the command output.
func printMarkdown(md string) {
	fmt.Fprint(stdout, renderMarkdown(md))
}
