package article

import (
	"errors"
	"fmt"
)

// Format represents a validated markup family for article content.
// The zero value means auto-detect; use Detect to resolve it.
// Use ParseFormat to create from user input, or the pre-parsed constants.
type Format struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Format{}

// ErrInvalidFormat indicates an unrecognized format name was specified.
var ErrInvalidFormat = errors.New("invalid format")

// Format name strings.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Pre-parsed format constants for use in code.
var (
	// AutoFormat is the zero value: the format is sniffed from content.
	AutoFormat Format

	HTMLFormat     = Format{name: FormatHTML}
	MarkdownFormat = Format{name: FormatMarkdown}
	TextFormat     = Format{name: FormatText}
)

// ParseFormat validates and parses a format name string. Common aliases
// (htm, md, txt) are accepted. An empty string parses to AutoFormat,
// meaning the format will be detected from content.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "":
		return AutoFormat, nil
	case FormatHTML, "htm":
		return HTMLFormat, nil
	case FormatMarkdown, "md":
		return MarkdownFormat, nil
	case FormatText, "txt", "plain":
		return TextFormat, nil
	}
	return Format{}, fmt.Errorf("unknown format %q (use 'html', 'markdown', or 'text'): %w", s, ErrInvalidFormat)
}

// MustParseFormat parses a format name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseFormat(s string) Format {
	f, err := ParseFormat(s)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the format name string. Returns empty string for the
// auto-detect zero value.
func (f Format) String() string {
	return f.name
}

// IsZero returns true for the auto-detect zero value. Unlike an invalid
// state, zero is a valid input everywhere content is available to sniff.
func (f Format) IsZero() bool {
	return f.name == ""
}

// IsHTML returns true if this format is HTML.
func (f Format) IsHTML() bool {
	return f.name == FormatHTML
}

// IsMarkdown returns true if this format is Markdown.
func (f Format) IsMarkdown() bool {
	return f.name == FormatMarkdown
}

// IsText returns true if this format is plain text.
func (f Format) IsText() bool {
	return f.name == FormatText
}
