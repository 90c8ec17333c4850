package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlocks parses markdown and returns the raw body of every top-level
// fenced code block, in document order. Prose blocks (paragraphs, headings,
// lists) are skipped entirely. A fenced block with no content lines
// contributes an empty string rather than being dropped.
func CodeBlocks(markdown string) []string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			continue
		}
		var body strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}
		blocks = append(blocks, body.String())
	}
	return blocks
}
