package lexical

import "strings"

// Stop words dropped from indexed and query text
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "we": true, "our": true, "will": true,
}

// Tokenize splits text into lowercased terms with surrounding punctuation
// trimmed and stop words removed. Inner punctuation is kept so that terms
// like "c++", "node.js" and "ci/cd" survive.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))

	for _, word := range words {
		term := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}<>*|"))
		if term != "" && !stopWords[term] {
			terms = append(terms, term)
		}
	}
	return terms
}

// uniqueTerms returns the distinct terms of text in first-seen order.
func uniqueTerms(text string) []string {
	terms := Tokenize(text)
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
