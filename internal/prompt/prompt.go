// Package prompt holds the built-in rewrite instructions and resolves
// user-supplied template selections. A selection is either the name of a
// built-in template or free-form instruction text passed through as-is.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown indicates an unknown template name was requested.
var ErrUnknown = errors.New("unknown template")

// Built-in template names.
const (
	Standard = "standard"
	SEO      = "seo"
	Simplify = "simplify"
	Formal   = "formal"
	Casual   = "casual"
)

// customThreshold separates template names from free-form instructions:
// anything containing whitespace or longer than this is treated as a
// custom instruction rather than a name lookup.
const customThreshold = 64

// templateOrder defines the display order for Names.
var templateOrder = []string{Standard, SEO, Simplify, Formal, Casual}

var templates = map[string]string{
	Standard: standardTemplate,
	SEO:      seoTemplate,
	Simplify: simplifyTemplate,
	Formal:   formalTemplate,
	Casual:   casualTemplate,
}

var summaries = map[string]string{
	Standard: "faithful rewrite with fresh phrasing",
	SEO:      "search-friendly headings, title, and lead",
	Simplify: "plain language, shorter sentences",
	Formal:   "professional, precise register",
	Casual:   "relaxed, conversational voice",
}

// Resolve turns a template selection into instruction text. Built-in
// names resolve to their template body. Free-form text (anything with
// inner whitespace, or longer than a plausible name) is returned
// verbatim. A short single word that matches no built-in is ErrUnknown.
func Resolve(selection string) (string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return "", fmt.Errorf("template cannot be empty: %w", ErrUnknown)
	}
	if body, ok := templates[selection]; ok {
		return body, nil
	}
	if strings.ContainsAny(selection, " \t\n") || len(selection) > customThreshold {
		return selection, nil
	}
	return "", fmt.Errorf("unknown template %q (built-in: %s): %w",
		selection, strings.Join(templateOrder, ", "), ErrUnknown)
}

// Names returns the built-in template names in display order.
func Names() []string {
	names := make([]string, len(templateOrder))
	copy(names, templateOrder)
	return names
}

// Summary returns a one-line description of a built-in template, or an
// empty string for anything else.
func Summary(name string) string {
	return summaries[name]
}

const commonRules = `Rules:
- Preserve every fact, name, number, quotation, and link exactly
- Keep the same markup format as the input (HTML stays HTML, Markdown stays Markdown, plain text stays plain text)
- Keep roughly the same overall length as the input
- Start with a single top-level heading for the title, followed by a short lead paragraph
- Do not wrap the output in code fences
- Do not add commentary, notes, or explanations about the rewrite
- Avoid stock phrases like "delve into", "in today's fast-paced world", or "it's important to note"`

const standardTemplate = `You rewrite articles so the result reads as an original piece, not a paraphrase.

Rewrite the article below. Change sentence structure, word choice, and paragraph rhythm substantially while keeping the meaning intact. Reorder points within a paragraph when it improves flow, but keep the overall structure of sections.

` + commonRules

const seoTemplate = `You rewrite articles for search visibility without sacrificing readability.

Rewrite the article below. Work the subject's main keyword naturally into the title, the lead paragraph, and at least one subheading. Prefer concrete, specific headings over clever ones. Keep the title under 65 characters and write a lead paragraph that works as a meta description.

` + commonRules

const simplifyTemplate = `You rewrite articles into plain language a broad audience can follow.

Rewrite the article below. Use short sentences and common words. Break long paragraphs apart, expand jargon on first use, and cut filler. Aim for a reading level around the eighth grade without dropping any information.

` + commonRules

const formalTemplate = `You rewrite articles into a professional register suitable for business and institutional publications.

Rewrite the article below. Use precise vocabulary, complete sentences, and an impersonal tone. Remove colloquialisms, rhetorical questions, and direct reader address unless quoting.

` + commonRules

const casualTemplate = `You rewrite articles into a relaxed, conversational voice, like a knowledgeable friend explaining the subject.

Rewrite the article below. Use contractions, direct address, and everyday vocabulary. Keep sentences varied and natural. Stay accurate; casual never means careless with facts.

` + commonRules
