// Package mask post-processes rewritten text to remove the most common
// machine-writing tells: typographic punctuation that chat models emit by
// default, and a short dictionary of stock phrases replaced with plainer
// wording. Replacements are plain substring swaps chosen so that they stay
// grammatical wherever the phrase can appear.
package mask

import "strings"

// punctPairs normalizes typographic punctuation before the phrase pass so
// phrase patterns only need to match straight apostrophes. Spaced dashes
// must come before the bare ones.
var punctPairs = []string{
	" — ", ", ", // spaced em-dash
	"— ", ", ",
	" —", ", ",
	"—", ", ", // bare em-dash
	" – ", ", ", // spaced en-dash
	"–", "-", // range en-dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"…", "...",
	" ", " ",
}

// phrasePairs maps stock phrases to plain alternatives. Longer variants of
// a stem must precede shorter ones so the replacer matches them first.
var phrasePairs = []string{
	"It is important to note that ", "Note that ",
	"it is important to note that ", "note that ",
	"It's important to note that ", "Note that ",
	"it's important to note that ", "note that ",
	"It is worth noting that ", "Notably, ",
	"it is worth noting that ", "notably, ",
	"Delving into", "Digging into",
	"delving into", "digging into",
	"delves into", "digs into",
	"Delve into", "Dig into",
	"delve into", "dig into",
	"Tapestry of", "Mix of",
	"tapestry of", "mix of",
	"Moreover, ", "Also, ",
	"moreover, ", "also, ",
	"Furthermore, ", "Also, ",
	"furthermore, ", "also, ",
	"Additionally, ", "Also, ",
	"additionally, ", "also, ",
	"Utilization", "Use",
	"utilization", "use",
	"Utilizing", "Using",
	"utilizing", "using",
	"Utilize", "Use",
	"utilize", "use",
	"Leveraging", "Using",
	"leveraging", "using",
	"Embark on a journey", "Get started",
	"embark on a journey", "get started",
	"embarked on", "started",
	"Embark on", "Start",
	"embark on", "start",
	"Unlock the potential", "Make the most",
	"unlock the potential", "make the most",
	"In the realm of", "In",
	"in the realm of", "in",
	"In today's fast-paced world", "Today",
	"in today's fast-paced world", "today",
	"a game-changer", "a big shift",
	"game-changing", "major",
	"Seamless", "Smooth",
	"seamless", "smooth",
	"Ever-evolving", "Changing",
	"ever-evolving", "changing",
	"Plethora of", "Lot of",
	"plethora of", "lot of",
	"myriad of", "host of",
	"A testament to", "Proof of",
	"a testament to", "proof of",
	"Elevate your", "Improve your",
	"elevate your", "improve your",
}

// Masker applies the replacement dictionary to text. The zero value is not
// usable; construct with New.
type Masker struct {
	punct   *strings.Replacer
	phrases *strings.Replacer
}

// New builds a Masker from the built-in dictionary.
func New() *Masker {
	return &Masker{
		punct:   strings.NewReplacer(punctPairs...),
		phrases: strings.NewReplacer(phrasePairs...),
	}
}

// Apply runs the punctuation pass and then the phrase pass over s.
// Replacements never change markup structure, so the result is safe for
// HTML and Markdown content alike.
func (m *Masker) Apply(s string) string {
	if s == "" {
		return s
	}
	return m.phrases.Replace(m.punct.Replace(s))
}
