package rewrite

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length bands for outcome fields, in runes. Title and description bounds
// follow the usual search-snippet limits.
const (
	MinTitleLen       = 30
	MaxTitleLen       = 65
	MaxDescriptionLen = 160
	MaxContentLen     = 100000
)

// Finalize normalizes raw model output into an Outcome: content clamped,
// description truncated, title padded or truncated into its band. Filler
// words for short titles come from the description when present, otherwise
// from the content.
func Finalize(content, title, description string, cost float64) Outcome {
	content = ClampContent(content)
	description = ClampDescription(description)

	filler := description
	if filler == "" {
		filler = content
	}

	if cost < 0 {
		cost = 0
	}

	return Outcome{
		Content:     content,
		Title:       ClampTitle(title, filler),
		Description: description,
		Cost:        cost,
	}
}

// ClampTitle fits title into [MinTitleLen, MaxTitleLen] runes. Long titles
// are truncated at a word boundary; short ones are padded with leading
// words from filler. An empty title stays empty.
func ClampTitle(title, filler string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return ""
	}

	if utf8.RuneCountInString(title) > MaxTitleLen {
		return truncateAtWord(title, MaxTitleLen)
	}

	if utf8.RuneCountInString(title) < MinTitleLen {
		title = padTitle(title, filler)
		if utf8.RuneCountInString(title) > MaxTitleLen {
			return truncateAtWord(title, MaxTitleLen)
		}
	}
	return title
}

// ClampDescription collapses whitespace and truncates to MaxDescriptionLen
// runes at a word boundary. Short descriptions are never padded.
func ClampDescription(description string) string {
	description = strings.Join(strings.Fields(description), " ")
	if utf8.RuneCountInString(description) <= MaxDescriptionLen {
		return description
	}
	return truncateAtWord(description, MaxDescriptionLen)
}

// ClampContent truncates content to MaxContentLen runes. Content is left
// otherwise untouched so its markup survives.
func ClampContent(content string) string {
	if utf8.RuneCountInString(content) <= MaxContentLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxContentLen])
}

// StripCodeFence unwraps a markdown code fence when the model fenced its
// whole answer despite instructions. Inner fences, unclosed fences, and
// answers with prose outside the fence are left alone.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line, language tag included.
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return trimmed
	}

	return strings.TrimSpace(trimmed[nl+1 : len(trimmed)-3])
}

// padTitle appends words from filler until the title reaches MinTitleLen
// runes. The first appended word is joined with " - " so the result reads
// as a subtitle.
func padTitle(title, filler string) string {
	sep := " - "
	for _, w := range strings.Fields(stripInlineMarkup(filler)) {
		if utf8.RuneCountInString(title) >= MinTitleLen {
			break
		}
		title += sep + w
		sep = " "
	}
	return title
}

// truncateAtWord cuts s to at most max runes, stepping back to the last
// word boundary when one falls in the second half of the cut.
func truncateAtWord(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i >= max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}

// inlineMarkupPattern matches markup that must not leak into padded titles:
// HTML tags and runs of markdown punctuation.
var inlineMarkupPattern = regexp.MustCompile("<[^>]*>|[#*_>`\\[\\]-]+")

// stripInlineMarkup replaces markup with spaces so Fields sees clean words.
func stripInlineMarkup(s string) string {
	return inlineMarkupPattern.ReplaceAllString(s, " ")
}
