// Package splitter turns page units into overlapping, provenance-tagged
// text chunks: Group folds consecutive pages into larger documents, Split
// cuts those documents into fixed-size windows.
package splitter

import (
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

// Group partitions units into consecutive runs of groupSize. The final run
// may be shorter but is never dropped. groupSize 1 (the default for slide
// decks, where a slide is already a natural retrieval unit) yields one
// document per unit. Values below 1 are treated as 1.
func Group(units []corpus.PageUnit, groupSize int) []corpus.GroupedDocument {
	if groupSize < 1 {
		groupSize = 1
	}

	var groups []corpus.GroupedDocument
	for i := 0; i < len(units); i += groupSize {
		end := min(i+groupSize, len(units))
		run := units[i:end]

		parts := make([]string, len(run))
		sources := make([]string, len(run))
		for j, u := range run {
			parts[j] = u.Content
			sources[j] = corpus.ProvenanceString(u.Source, u.Position)
		}
		groups = append(groups, corpus.GroupedDocument{
			Content: strings.Join(parts, "\n\n"),
			Sources: sources,
		})
	}
	return groups
}
