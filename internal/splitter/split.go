package splitter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

var (
	ErrChunkSizeInvalid = errors.New("chunk size must be positive")
	ErrOverlapTooLarge  = errors.New("chunk overlap must be smaller than chunk size")
)

// boundaries, in preference order: paragraph, line, sentence, word.
var boundaries = []string{"\n\n", "\n", ". ", " "}

// Split cuts every grouped document into windows of up to chunkSize bytes
// with overlap bytes carried between consecutive windows, preferring to
// break at a paragraph, line, sentence or word boundary before falling back
// to a hard cut. Every chunk inherits its parent group's whole provenance
// list. Configuration is validated before any chunk is produced; chunks
// carry no sequence index here, that is assigned at persistence time.
func Split(groups []corpus.GroupedDocument, chunkSize, overlap int) ([]corpus.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrChunkSizeInvalid, chunkSize)
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, chunk size %d", ErrOverlapTooLarge, overlap, chunkSize)
	}

	var chunks []corpus.Chunk
	for _, g := range groups {
		windows := splitText(g.Content, chunkSize, overlap)
		if len(windows) == 0 {
			continue
		}
		sources := append([]string(nil), g.Sources...)
		for _, w := range windows {
			chunks = append(chunks, corpus.Chunk{
				Content:  w,
				Metadata: corpus.Metadata{Sources: sources},
			})
		}
	}
	return chunks, nil
}

// splitText windows text left to right. Each window ends at the best
// boundary found in the trailing half of the window; the next window starts
// overlap bytes before that cut. Cuts never land mid-rune; a window exceeds
// size only when a single rune is wider than size.
func splitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for start < len(text) {
		if len(text)-start <= size {
			if w := strings.TrimSpace(text[start:]); w != "" {
				out = append(out, w)
			}
			break
		}
		cut := findCut(text, start, start+size)
		if cut <= start {
			// size is smaller than the rune at start; emit that rune alone
			// so the walk always advances.
			_, n := utf8.DecodeRuneInString(text[start:])
			cut = start + n
		}
		if w := strings.TrimSpace(text[start:cut]); w != "" {
			out = append(out, w)
		}
		next := alignRuneStart(text, cut-overlap)
		if next <= start {
			// overlap would stall the walk; drop it for this step
			next = cut
		}
		start = next
	}
	return out
}

// findCut returns the cut position for the window [start, limit), snapping
// to the latest boundary in the window's trailing half when one exists.
func findCut(text string, start, limit int) int {
	limit = alignRuneStart(text, limit)
	window := text[start:limit]
	slack := len(window) / 2
	for _, sep := range boundaries {
		if idx := strings.LastIndex(window, sep); idx >= slack {
			return start + idx + len(sep)
		}
	}
	return limit
}

// alignRuneStart moves i back to the nearest UTF-8 rune start, clamping to
// [0, len(s)].
func alignRuneStart(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
