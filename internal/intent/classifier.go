package intent

import (
	"regexp"
	"strings"
)

// Kind is the classified purpose of an inbound text.
type Kind int

const (
	// Freeform means no domain pattern matched; the text goes to the
	// generative backend.
	Freeform Kind = iota
	// Confirmation means the text carries an affirmative token. The
	// classifier only reports the lexical signal; whether it confirms
	// anything depends on the caller's pending-transaction state.
	Confirmation
	// Search is a "hotels in <location>" query.
	Search
	// Book is a "book <name>" request.
	Book
)

func (k Kind) String() string {
	switch k {
	case Confirmation:
		return "confirmation"
	case Search:
		return "search"
	case Book:
		return "book"
	default:
		return "freeform"
	}
}

// Intent is a classified inbound text plus any captured arguments.
type Intent struct {
	Kind Kind
	// Location is set for Search: the captured location key, trimmed.
	Location string
	// OfferQuery is set for Book: the captured offer name, trimmed.
	// Matching against the catalog is case-insensitive downstream; the
	// original casing is kept for display.
	OfferQuery string
}

var (
	searchPattern = regexp.MustCompile(`(?i)hotels?\s+in\s+(.+)`)
	bookPattern   = regexp.MustCompile(`(?i)\bbook\s+(.+)`)
)

// Affirmative tokens must match a whole word, so "yesterday" does not read
// as a confirmation.
var affirmativeTokens = map[string]struct{}{
	"yes":     {},
	"yep":     {},
	"yeah":    {},
	"confirm": {},
}

// Classify maps raw text to an intent. Priority is fixed:
// Confirmation > Search > Book > Freeform; the first match wins.
func Classify(text string) Intent {
	if isAffirmative(text) {
		return Intent{Kind: Confirmation}
	}
	return ClassifyDomain(text)
}

// ClassifyDomain matches only the search and book patterns. It is for
// callers that have already consumed or ruled out the confirmation reading:
// an affirmative token with nothing to confirm still deserves a shot at the
// domain patterns before falling through to freeform.
func ClassifyDomain(text string) Intent {
	if m := searchPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: Search, Location: strings.TrimSpace(m[1])}
	}
	if m := bookPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: Book, OfferQuery: strings.TrimSpace(m[1])}
	}
	return Intent{Kind: Freeform}
}

func isAffirmative(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?")
		if _, ok := affirmativeTokens[word]; ok {
			return true
		}
	}
	return false
}
