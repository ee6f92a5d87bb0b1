// Package article inspects article content: sniffing its markup family
// and pulling out display metadata (title, lead paragraph) from HTML,
// Markdown, or plain text.
package article

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// titleLineMax is the longest first line of plain text still plausibly a
// title rather than prose.
const titleLineMax = 120

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<(!doctype|html|head|body|article|section|div|p|h[1-6]|ul|ol|li|a|span|br|img|strong|em|blockquote)\b`)

	markdownPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^#{1,6}\s+\S`),
		regexp.MustCompile(`(?m)^[-*+]\s+\S`),
		regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),
		regexp.MustCompile("(?m)^```"),
		regexp.MustCompile(`(?m)^>\s`),
	}

	h1Pattern    = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	pPattern     = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)

	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n`)
)

// markdown is the shared goldmark instance; parsing is stateless and
// safe for concurrent use.
var markdown = goldmark.New()

// Detect sniffs the markup family of content. It always returns one of
// HTMLFormat, MarkdownFormat, or TextFormat, never the zero Format.
func Detect(content string) Format {
	if htmlTagPattern.MatchString(content) {
		return HTMLFormat
	}
	for _, p := range markdownPatterns {
		if p.MatchString(content) {
			return MarkdownFormat
		}
	}
	if strings.Contains(content, "**") {
		return MarkdownFormat
	}
	return TextFormat
}

// Title extracts a display title from content: the first <h1> (or
// <title>) for HTML, the first level-1 heading for Markdown, the first
// short line for plain text. Returns an empty string when content
// offers nothing usable. A zero format is detected from content.
func Title(content string, f Format) string {
	if f.IsZero() {
		f = Detect(content)
	}
	switch f {
	case HTMLFormat:
		return htmlTitle(content)
	case MarkdownFormat:
		return markdownTitle(content)
	default:
		return textTitle(content)
	}
}

// Description extracts a lead paragraph from content: the first <p> with
// text for HTML, the first paragraph node for Markdown, the first prose
// paragraph for plain text. Returns an empty string when content offers
// nothing usable. A zero format is detected from content.
func Description(content string, f Format) string {
	if f.IsZero() {
		f = Detect(content)
	}
	switch f {
	case HTMLFormat:
		return htmlDescription(content)
	case MarkdownFormat:
		return markdownDescription(content)
	default:
		return textDescription(content)
	}
}

// ---------------------------------------------------------------------------
// HTML
// ---------------------------------------------------------------------------

func htmlTitle(content string) string {
	if m := h1Pattern.FindStringSubmatch(content); m != nil {
		if t := cleanFragment(m[1]); t != "" {
			return t
		}
	}
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		return cleanFragment(m[1])
	}
	return ""
}

func htmlDescription(content string) string {
	for _, m := range pPattern.FindAllStringSubmatch(content, -1) {
		if d := cleanFragment(m[1]); d != "" {
			return d
		}
	}
	return ""
}

// cleanFragment strips tags, decodes entities, and collapses whitespace
// in an HTML fragment.
func cleanFragment(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

func markdownTitle(content string) string {
	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = nodeText(h, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(title)
}

func markdownDescription(content string) string {
	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var desc string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Paragraph); ok {
			desc = nodeText(n, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(desc), " ")
}

// nodeText collects the plain text beneath a node, dropping inline
// markup.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// ---------------------------------------------------------------------------
// Plain text
// ---------------------------------------------------------------------------

func textTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > titleLineMax {
			return ""
		}
		return line
	}
	return ""
}

func textDescription(content string) string {
	paras := splitParagraphs(content)
	if len(paras) == 0 {
		return ""
	}
	// When the opening paragraph is a lone short line it is the title,
	// and the description is the paragraph after it.
	first := paras[0]
	if len(paras) > 1 && !strings.Contains(first, "\n") && utf8.RuneCountInString(first) <= titleLineMax {
		return collapseLines(paras[1])
	}
	return collapseLines(first)
}

func splitParagraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var paras []string
	for _, p := range blankLinePattern.Split(content, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

func collapseLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
