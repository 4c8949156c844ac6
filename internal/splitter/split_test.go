package splitter

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/slidetutor/slidetutor/internal/corpus"
)

func TestSplit_OverlapMustBeSmaller(t *testing.T) {
	groups := []corpus.GroupedDocument{{Content: "something"}}

	if _, err := Split(groups, 100, 100); !errors.Is(err, ErrOverlapTooLarge) {
		t.Errorf("expected ErrOverlapTooLarge, got %v", err)
	}
	if _, err := Split(groups, 100, 200); !errors.Is(err, ErrOverlapTooLarge) {
		t.Errorf("expected ErrOverlapTooLarge, got %v", err)
	}
	if _, err := Split(groups, 0, 0); !errors.Is(err, ErrChunkSizeInvalid) {
		t.Errorf("expected ErrChunkSizeInvalid, got %v", err)
	}
}

// TestSplit_OverlapCarry checks the raw-cut invariant on boundary-free text:
// the trailing overlap bytes of window i are the leading bytes of window i+1.
func TestSplit_OverlapCarry(t *testing.T) {
	const size, overlap = 30, 10
	text := strings.Repeat("abcdefghij", 10) // no split boundaries anywhere

	windows := splitText(text, size, overlap)
	if len(windows) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(windows))
	}
	for i := 0; i < len(windows)-1; i++ {
		tail := windows[i][len(windows[i])-overlap:]
		head := windows[i+1][:overlap]
		if tail != head {
			t.Errorf("window %d/%d overlap mismatch: %q vs %q", i, i+1, tail, head)
		}
	}
}

func TestSplit_ShortContentSingleChunk(t *testing.T) {
	groups := []corpus.GroupedDocument{{
		Content: "short text",
		Sources: []string{"deck.pdf (page 1)"},
	}}

	chunks, err := Split(groups, 600, 120)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short text" {
		t.Errorf("unexpected content: %q", chunks[0].Content)
	}
}

// TestSplit_ProvenanceInherited verifies every window carries its parent
// group's whole source list and input order is preserved.
func TestSplit_ProvenanceInherited(t *testing.T) {
	intro := "Intro. " + strings.Repeat("Feature matching compares descriptors across images. ", 3)
	concl := "Conclusion. " + strings.Repeat("The ratio test rejects ambiguous matches. ", 3)
	groups := []corpus.GroupedDocument{
		{Content: intro, Sources: []string{"doc.pdf (page 1)"}},
		{Content: concl, Sources: []string{"doc.pdf (page 2)"}},
	}

	chunks, err := Split(groups, 50, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected chunks from both pages, got %d", len(chunks))
	}

	seenPage2 := false
	for _, c := range chunks {
		if len(c.Metadata.Sources) != 1 {
			t.Fatalf("expected single-source metadata, got %v", c.Metadata.Sources)
		}
		switch c.Metadata.Sources[0] {
		case "doc.pdf (page 1)":
			if seenPage2 {
				t.Error("page-1 chunk emitted after page-2 chunks")
			}
		case "doc.pdf (page 2)":
			seenPage2 = true
		default:
			t.Errorf("unexpected source %q", c.Metadata.Sources[0])
		}
		if c.SequenceIndex != 0 {
			t.Errorf("splitter must not assign sequence indexes, got %d", c.SequenceIndex)
		}
	}
	if !seenPage2 {
		t.Error("no page-2 chunks produced")
	}
}

// TestSplit_PrefersParagraphBoundary checks windows snap to a blank line
// when one falls inside the window.
func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("alpha ", 12) // 72 bytes
	para2 := strings.Repeat("beta ", 12)
	text := strings.TrimSpace(para1) + "\n\n" + strings.TrimSpace(para2)

	windows := splitText(text, 100, 0)
	if len(windows) < 2 {
		t.Fatalf("expected at least 2 windows, got %d", len(windows))
	}
	if strings.Contains(windows[0], "beta") {
		t.Errorf("first window crossed the paragraph boundary: %q", windows[0])
	}
}

// TestSplit_UTF8Safe checks cuts never land mid-rune on multibyte text and
// that the byte budget holds.
func TestSplit_UTF8Safe(t *testing.T) {
	text := strings.Repeat("الرؤية الحاسوبية تدرس الصور الرقمية ", 20)

	windows := splitText(text, 64, 16)
	if len(windows) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(windows))
	}
	for i, w := range windows {
		if !utf8.ValidString(w) {
			t.Errorf("window %d is not valid UTF-8: %q", i, w)
		}
		if len(w) > 64 {
			t.Errorf("window %d is %d bytes, budget is 64", i, len(w))
		}
	}
}

// TestSplit_WindowNarrowerThanRune checks the walk still terminates when the
// byte budget is smaller than a single rune. Each rune becomes its own
// window; overlap cannot apply.
func TestSplit_WindowNarrowerThanRune(t *testing.T) {
	done := make(chan []string, 1)
	go func() { done <- splitText("日本語", 2, 0) }()

	var windows []string
	select {
	case windows = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("splitText did not terminate")
	}

	want := []string{"日", "本", "語"}
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %v", len(want), windows)
	}
	for i, w := range windows {
		if w != want[i] {
			t.Errorf("window %d = %q, want %q", i, w, want[i])
		}
	}

	// Same shape with overlap configured; size 2 forces overlap 1 < 2 past
	// Split's validation, and the stall guard drops it per step.
	chunks, err := Split([]corpus.GroupedDocument{{Content: "عع", Sources: []string{"a.pdf (page 1)"}}}, 2, 1)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
}

func TestSplit_EmptyGroupProducesNothing(t *testing.T) {
	chunks, err := Split([]corpus.GroupedDocument{{Content: "   \n  "}}, 100, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks from blank content, got %d", len(chunks))
	}
}
