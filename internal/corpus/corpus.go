// Package corpus defines the data model shared by the offline ingestion
// pipeline and the query-time retrieval path.
package corpus

import "fmt"

// PageUnit is a single page of a PDF or a single slide of a deck, the
// smallest unit produced by the loader. Position is 1-based.
type PageUnit struct {
	Content  string
	Source   string // source filename, e.g. "lecture03.pdf"
	Position int    // page or slide number
}

// GroupedDocument is a contiguous run of PageUnits folded into one larger
// document so the splitter has more context per cut. Sources holds one
// provenance string per folded unit, in order.
type GroupedDocument struct {
	Content string
	Sources []string
}

// Metadata carries chunk provenance. Chunks produced from a grouped
// document use Sources; ungrouped single-page chunks use Source+Page.
type Metadata struct {
	Sources []string `json:"sources,omitempty"`
	Source  string   `json:"source,omitempty"`
	Page    int      `json:"page,omitempty"`
}

// Provenance returns the human-readable source strings used for citations.
func (m Metadata) Provenance() []string {
	if len(m.Sources) > 0 {
		return m.Sources
	}
	if m.Source == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s (page %d)", m.Source, m.Page)}
}

// Chunk is the smallest retrievable unit of text. SequenceIndex is assigned
// by the chunk store at persistence time and is the chunk's stable
// identifier across reloads.
type Chunk struct {
	Content       string
	Metadata      Metadata
	SequenceIndex int
}

// ProvenanceString formats a page unit's provenance the way it appears in
// grouped-document source lists and citations.
func ProvenanceString(source string, position int) string {
	return fmt.Sprintf("%s (page %d)", source, position)
}

// Conversation roles. History is supplied by the caller per request; the
// core never persists it.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior exchange in the conversation.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// RetrievalHit pairs a retrieved chunk with its similarity score.
// Score semantics are cosine similarity: higher is better.
type RetrievalHit struct {
	Chunk Chunk
	Score float64
}
