package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

// loadDOCX extracts the paragraph text of a Word document as a single page
// unit. Word documents have no stable page boundaries at the XML level, so
// the whole body counts as position 1.
func loadDOCX(path string) ([]corpus.PageUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	content := strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	if content == "" {
		return nil, nil
	}
	return []corpus.PageUnit{{
		Content:  content,
		Source:   filepath.Base(path),
		Position: 1,
	}}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
