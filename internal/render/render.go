// Package render pretty-prints markdown responses for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const wordWrap = 100

// Markdown renders a markdown response with glamour. On any renderer failure
// the raw text comes back unchanged; rendering is cosmetic and must never
// block the pipeline.
func Markdown(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
