package chunk_test

// Coverage Notes:
// - Boundary priorities are tested with content that only offers one kind
//   of boundary at a time (paragraph tags, sentences, bare tags, nothing).
// - Structural invariants (overlap carry, coverage, flags, window bound)
//   are asserted over generated content rather than golden outputs.

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alnah/go-respin/internal/chunk"
)

// makeSentences builds plain prose of at least n bytes out of short
// sentences, with no markup anywhere.
func makeSentences(n int) string {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		fmt.Fprintf(&b, "Sentence number %d carries a few ordinary words. ", i)
	}
	return b.String()
}

// makeParagraphs builds HTML of at least n bytes out of <p> blocks.
func makeParagraphs(n int) string {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		fmt.Fprintf(&b, "<p>Paragraph %d holds a couple of sentences. Nothing fancy happens here.</p>\n", i)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// TestSplitSingleChunk - content within the target is not split
// ---------------------------------------------------------------------------

func TestSplitSingleChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"empty content", ""},
		{"short content", "A short paragraph."},
		{"exactly target size", strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chunks := chunk.Split(tt.content, 100, 20)

			if len(chunks) != 1 {
				t.Fatalf("len(chunks) = %d, want 1", len(chunks))
			}
			c := chunks[0]
			if c.Text != tt.content {
				t.Errorf("Text = %q, want full content", c.Text)
			}
			if !c.First || !c.Last {
				t.Errorf("First = %v, Last = %v, want both true", c.First, c.Last)
			}
			if c.Index != 0 {
				t.Errorf("Index = %d, want 0", c.Index)
			}
		})
	}
}

func TestSplitJustOverTarget(t *testing.T) {
	t.Parallel()

	content := makeSentences(110)
	chunks := chunk.Split(content, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2 for content over target", len(chunks))
	}
}

// ---------------------------------------------------------------------------
// TestSplitBoundaries - cut priority order
// ---------------------------------------------------------------------------

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	t.Parallel()

	content := makeParagraphs(10000)
	chunks := chunk.Split(content, 2800, 200)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Text, "</p>") {
			t.Errorf("chunk %d ends %q, want closing paragraph tag", c.Index, tail(c.Text))
		}
	}
}

func TestSplitFallsBackToSentenceBoundary(t *testing.T) {
	t.Parallel()

	content := makeSentences(10000)
	chunks := chunk.Split(content, 2800, 200)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d ends %q, want sentence end", c.Index, tail(c.Text))
		}
	}
}

func TestSplitFallsBackToTagBoundary(t *testing.T) {
	t.Parallel()

	// List items offer tag ends but no paragraphs and no periods.
	var b strings.Builder
	for i := 0; b.Len() < 10000; i++ {
		fmt.Fprintf(&b, "<li>item number %d without punctuation</li>", i)
	}
	chunks := chunk.Split(b.String(), 2800, 200)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Text, ">") {
			t.Errorf("chunk %d ends %q, want tag end", c.Index, tail(c.Text))
		}
	}
}

func TestSplitHardCutWithoutBoundaries(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("a", 10000)
	chunks := chunk.Split(content, 2800, 200)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks[:len(chunks)-1] {
		if len(c.Text) != 2800 {
			t.Errorf("chunk %d length = %d, want exactly target size on hard cut", c.Index, len(c.Text))
		}
	}
}

// ---------------------------------------------------------------------------
// TestSplitInvariants - overlap, coverage, flags, window bound
// ---------------------------------------------------------------------------

func TestSplitOverlapCarriesForward(t *testing.T) {
	t.Parallel()

	const overlap = 200
	chunks := chunk.Split(makeSentences(12000), 2800, overlap)

	if len(chunks) < 3 {
		t.Fatalf("len(chunks) = %d, want >= 3", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		prev := chunks[i].Text
		next := chunks[i+1].Text
		if prev[len(prev)-overlap:] != next[:overlap] {
			t.Errorf("chunk %d does not start with the last %d bytes of chunk %d", i+1, overlap, i)
		}
	}
}

func TestSplitCoversAllContent(t *testing.T) {
	t.Parallel()

	const overlap = 200
	content := makeSentences(15000)
	chunks := chunk.Split(content, 2800, overlap)

	total := 0
	for _, c := range chunks {
		total += len(c.Text)
	}
	want := len(content) + (len(chunks)-1)*overlap
	if total != want {
		t.Errorf("total chunk bytes = %d, want %d (content + repeated overlaps)", total, want)
	}
}

func TestSplitFlagsAndOrder(t *testing.T) {
	t.Parallel()

	chunks := chunk.Split(makeSentences(15000), 2800, 200)

	firsts, lasts := 0, 0
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunks[%d].Index = %d, want %d", i, c.Index, i)
		}
		if c.First {
			firsts++
			if i != 0 {
				t.Errorf("First set on chunk %d", i)
			}
		}
		if c.Last {
			lasts++
			if i != len(chunks)-1 {
				t.Errorf("Last set on chunk %d", i)
			}
		}
		if c.Text == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
	if firsts != 1 || lasts != 1 {
		t.Errorf("firsts = %d, lasts = %d, want exactly one of each", firsts, lasts)
	}
}

func TestSplitRespectsWindowBound(t *testing.T) {
	t.Parallel()

	const target = 2800
	chunks := chunk.Split(makeParagraphs(30000), target, 200)

	for _, c := range chunks {
		if len(c.Text) > target+chunk.LookaheadSlack {
			t.Errorf("chunk %d length = %d, want <= %d", c.Index, len(c.Text), target+chunk.LookaheadSlack)
		}
	}
}

func TestSplitTwentyThousandChars(t *testing.T) {
	t.Parallel()

	content := makeSentences(20000)[:20000]
	chunks := chunk.Split(content, chunk.DefaultTargetSize, chunk.DefaultOverlap)

	if n := len(chunks); n < 7 || n > 9 {
		t.Errorf("len(chunks) = %d, want 7-9 for 20000 chars at default sizes", n)
	}
}

// ---------------------------------------------------------------------------
// TestSplitEdgeCases - parameter normalization and multibyte text
// ---------------------------------------------------------------------------

func TestSplitZeroTargetUsesDefault(t *testing.T) {
	t.Parallel()

	content := makeSentences(chunk.DefaultTargetSize + 500)
	chunks := chunk.Split(content, 0, 0)

	if len(chunks) < 2 {
		t.Errorf("len(chunks) = %d, want >= 2 when default target applies", len(chunks))
	}
}

func TestSplitOversizedOverlapIsClamped(t *testing.T) {
	t.Parallel()

	content := makeSentences(5000)
	chunks := chunk.Split(content, 1000, 5000)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks {
		if c.Text == "" {
			t.Errorf("chunk %d is empty", c.Index)
		}
	}
}

func TestSplitNegativeOverlapTreatedAsZero(t *testing.T) {
	t.Parallel()

	content := makeSentences(5000)
	chunks := chunk.Split(content, 1000, -50)

	total := 0
	for _, c := range chunks {
		total += len(c.Text)
	}
	if total != len(content) {
		t.Errorf("total chunk bytes = %d, want %d with no overlap", total, len(content))
	}
}

func TestSplitKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	// Multibyte content with no cut boundaries forces hard cuts.
	content := strings.Repeat("héllö wörld ", 1000)
	chunks := chunk.Split(content, 500, 50)

	for _, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d contains a split rune", c.Index)
		}
	}
}

func TestSplitOverlapStartsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// Two-byte runes with an odd overlap park the naive overlap step-back
	// in the middle of a rune; the next chunk must round forward to the
	// following rune start.
	content := strings.Repeat("éä", 1500)
	chunks := chunk.Split(content, 500, 49)

	if len(chunks) < 3 {
		t.Fatalf("len(chunks) = %d, want >= 3", len(chunks))
	}
	for _, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d starts or ends mid-rune", c.Index)
		}
	}
}

// tail returns the last few bytes of s for error messages.
func tail(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[len(s)-12:]
}
