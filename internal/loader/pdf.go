package loader

import (
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

// loadPDF extracts one page unit per text-bearing page, 1-based.
// Pages that fail to decode or carry no text are skipped.
func loadPDF(path string) ([]corpus.PageUnit, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var units []corpus.PageUnit
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		units = append(units, corpus.PageUnit{
			Content:  text,
			Source:   filepath.Base(path),
			Position: i,
		})
	}
	return units, nil
}
