// Package chunkstore persists chunks as numbered JSON records so an
// ingestion run can be re-embedded later without re-reading the sources.
package chunkstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

var (
	ErrStoreNotEmpty  = errors.New("chunk store already contains records")
	ErrBadRecordName  = errors.New("malformed chunk record name")
	ErrTooManyChunks  = errors.New("chunk count exceeds the record name width")
	ErrSequenceBroken = errors.New("chunk records are not contiguous from zero")
)

// maxRecords keeps every record name within the zero-padded width, so
// lexical directory order stays equal to sequence order.
const maxRecords = 10000

// record is the on-disk shape of one chunk: field-complete, human-readable.
type record struct {
	PageContent string          `json:"page_content"`
	Metadata    corpus.Metadata `json:"metadata"`
}

// Store reads and writes chunk records under <dataDir>/chunks. Records are
// named chunk_NNNN.json with a zero-padded sequence index, so lexical
// directory order equals sequence order.
type Store struct {
	dir string
}

// New creates a Store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{dir: filepath.Join(dataDir, "chunks")}
}

// Dir returns the directory chunk records live in.
func (s *Store) Dir() string { return s.dir }

// Persist assigns sequence indexes 0..n-1 in input order and writes one
// record per chunk. Persisting into a non-empty store fails with
// ErrStoreNotEmpty; call Clear first. Mixing chunk generations is never
// allowed because index rebuilds assume the store reflects exactly one
// ingestion run.
func (s *Store) Persist(chunks []corpus.Chunk) error {
	if len(chunks) > maxRecords {
		return fmt.Errorf("%w: %d chunks, limit %d", ErrTooManyChunks, len(chunks), maxRecords)
	}

	existing, err := s.recordNames()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %d records in %s", ErrStoreNotEmpty, len(existing), s.dir)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create chunks dir: %w", err)
	}

	for i, c := range chunks {
		rec := record{PageContent: c.Content, Metadata: c.Metadata}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal chunk %d: %w", i, err)
		}
		name := fmt.Sprintf("chunk_%04d.json", i)
		if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// LoadAll returns every persisted chunk in ascending sequence order, with
// content and metadata exactly as persisted. Records must be contiguous
// from chunk_0000; a gap fails the load. A missing or empty store yields
// an empty slice, not an error.
func (s *Store) LoadAll() ([]corpus.Chunk, error) {
	names, err := s.recordNames()
	if err != nil {
		return nil, err
	}

	chunks := make([]corpus.Chunk, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		idx, err := sequenceIndex(name)
		if err != nil {
			return nil, err
		}
		// A gap or duplicate means records from different runs were mixed.
		if idx != i {
			return nil, fmt.Errorf("%w: %s at position %d", ErrSequenceBroken, name, i)
		}
		chunks = append(chunks, corpus.Chunk{
			Content:       rec.PageContent,
			Metadata:      rec.Metadata,
			SequenceIndex: idx,
		})
	}
	return chunks, nil
}

// Clear removes every persisted record.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clear chunk store: %w", err)
	}
	return nil
}

// recordNames lists chunk record filenames in lexical (= sequence) order.
func (s *Store) recordNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read chunks dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "chunk_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func sequenceIndex(name string) (int, error) {
	var idx int
	if _, err := fmt.Sscanf(name, "chunk_%d.json", &idx); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadRecordName, name)
	}
	return idx, nil
}
