// Package scoring provides the heuristic checks used to validate refinement rounds.
//
// Information Hiding:
// - Stop-word list and punctuation handling encapsulated
// - Threshold constants and penalty weights fixed here, not by callers
//
// All functions are pure: deterministic, no I/O, no shared state.
package scoring

import "strings"

// minKeywordLength is the shortest token (exclusive) kept as a keyword.
const minKeywordLength = 3

// tokenPunctuation is stripped from both ends of each token before filtering.
const tokenPunctuation = ".,!?;:()[]{}\"'"

// stopWords are articles, conjunctions, common auxiliary verbs and pronouns
// that carry no topical content.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {}, "me": {}, "him": {}, "her": {},
	"us": {}, "them": {},
}

// ExtractKeywords tokenizes text into a set of content-bearing terms.
// Tokens are split on whitespace, stripped of surrounding punctuation and
// lower-cased; short tokens and stop words are discarded. Empty input
// yields an empty set.
func ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})

	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, tokenPunctuation))
		if len(word) <= minKeywordLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords[word] = struct{}{}
	}

	return keywords
}
