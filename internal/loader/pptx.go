package loader

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// loadPPTX extracts one page unit per slide, 1-based by slide number.
// A slide's content is the newline-joined text of its non-empty paragraphs,
// in shape order. Slides with no text contribute nothing.
func loadPPTX(path string) ([]corpus.PageUnit, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	type slideFile struct {
		number int
		file   *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{number: n, file: f})
	}
	// Archive entries are not ordered; slide numbers are.
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var units []corpus.PageUnit
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return nil, err
		}
		text, err := slideText(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		units = append(units, corpus.PageUnit{
			Content:  text,
			Source:   filepath.Base(path),
			Position: s.number,
		})
	}
	return units, nil
}

// slideText pulls the character data of every a:t run out of a slide's XML,
// joining runs within one a:p paragraph and paragraphs with newlines.
func slideText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var lines []string
	var current strings.Builder
	inText := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			lines = append(lines, s)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	flush()
	return strings.Join(lines, "\n"), nil
}
