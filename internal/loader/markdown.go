package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

// loadMarkdown strips a markdown file to plain text (headings kept as their
// own lines) and returns it as a single page unit.
func loadMarkdown(path string) ([]corpus.PageUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}

	content := strings.TrimSpace(strings.Join(blocks, "\n\n"))
	if content == "" {
		return nil, nil
	}
	return []corpus.PageUnit{{
		Content:  content,
		Source:   filepath.Base(path),
		Position: 1,
	}}, nil
}

// blockText gets the plain text of a goldmark AST block node. Childless
// blocks (code blocks) keep their raw lines; everything else comes from the
// inline text nodes so markup stays out.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if c.Type() == ast.TypeBlock {
			buf.WriteString("\n")
			buf.WriteString(blockText(c, src))
		} else {
			buf.WriteString(blockText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
