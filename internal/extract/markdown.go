package extract

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor flattens Markdown using goldmark. Headings become their
// own lines so downstream line-based segmentation can see them.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var buf strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var block string
		if h, ok := n.(*ast.Heading); ok {
			block = string(h.Text(src))
		} else {
			block = nodeText(n, src)
		}
		if block == "" {
			continue
		}
		buf.WriteString(block)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
