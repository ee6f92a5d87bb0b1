// Package chunk splits article text into overlapping pieces sized for
// chat completion requests. Cuts land on markup or sentence boundaries
// whenever one exists near the target size, so each piece stays coherent
// on its own.
package chunk

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultTargetSize is the preferred chunk length in bytes, roughly
	// 700 tokens of English prose or markup.
	DefaultTargetSize = 2800

	// DefaultOverlap is the number of bytes repeated from the end of one
	// chunk at the start of the next, so a sentence cut near the boundary
	// keeps its surrounding context.
	DefaultOverlap = 200

	// lookaheadSlack extends the boundary search window past the target
	// size. A chunk may run up to targetSize+lookaheadSlack bytes when a
	// good boundary sits inside the slack.
	lookaheadSlack = 400

	// paragraphClose is the preferred cut boundary for HTML content.
	paragraphClose = "</p>"
)

// Chunk is one contiguous piece of a larger text.
type Chunk struct {
	// Text is the chunk content, including the overlap carried from the
	// previous chunk.
	Text string

	// Index is the zero-based position of the chunk in the split.
	Index int

	// First and Last mark the outermost chunks. Exactly one chunk has
	// each flag set; a single-chunk split has both.
	First bool
	Last  bool
}

// Split cuts content into ordered, overlapping chunks. Boundaries are
// chosen in priority order: the end of a closing </p> tag, the end of a
// sentence (period followed by whitespace), the end of any markup tag,
// and finally a hard cut at targetSize. Each chunk after the first
// repeats the final overlap bytes of its predecessor, rounded to a rune
// boundary, and the final chunk takes whatever remains.
//
// Content no longer than targetSize comes back as a single chunk with
// both First and Last set. targetSize <= 0 falls back to
// DefaultTargetSize; overlap is clamped to [0, targetSize/2].
func Split(content string, targetSize, overlap int) []Chunk {
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > targetSize/2 {
		overlap = targetSize / 2
	}

	if len(content) <= targetSize {
		return []Chunk{{Text: content, First: true, Last: true}}
	}

	var chunks []Chunk
	start := 0
	for len(content)-start > targetSize {
		windowEnd := start + targetSize + lookaheadSlack
		if windowEnd > len(content) {
			windowEnd = len(content)
		}
		cut := findCut(content[start:windowEnd], targetSize, overlap)
		chunks = append(chunks, Chunk{Text: content[start : start+cut], Index: len(chunks)})
		start += cut - overlap
		// The overlap step-back can land inside a multibyte rune; move
		// forward to the next rune start so chunks stay valid UTF-8.
		for start < len(content) && !utf8.RuneStart(content[start]) {
			start++
		}
	}
	if start < len(content) {
		chunks = append(chunks, Chunk{Text: content[start:], Index: len(chunks)})
	}

	chunks[0].First = true
	chunks[len(chunks)-1].Last = true
	return chunks
}

// findCut picks the cut position inside window, preferring natural
// boundaries. Every returned cut exceeds overlap so the next chunk
// always starts past the current one.
func findCut(window string, targetSize, overlap int) int {
	// 1. End of the last closing paragraph tag.
	if i := strings.LastIndex(window, paragraphClose); i >= 0 {
		if cut := i + len(paragraphClose); cut > overlap {
			return cut
		}
	}

	// 2. End of the last sentence: a period followed by whitespace.
	for i := len(window) - 2; i > overlap; i-- {
		if window[i] == '.' && isSpaceByte(window[i+1]) {
			return i + 1
		}
	}

	// 3. End of the last markup tag of any kind.
	if i := strings.LastIndexByte(window, '>'); i+1 > overlap {
		return i + 1
	}

	// 4. Hard cut at the target size, stepping back to a rune boundary.
	// The floor keeps the cut past the overlap so the split always advances.
	cut := targetSize
	for cut > overlap+1 && !utf8.RuneStart(window[cut]) {
		cut--
	}
	return cut
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
