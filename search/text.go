package search

import "strings"

// Stop words ignored when checking for verbatim matches
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {},
	"was": {}, "to": {}, "of": {}, "and": {}, "in": {}, "that": {},
	"have": {}, "it": {}, "for": {}, "not": {}, "on": {}, "with": {},
	"as": {}, "you": {}, "do": {}, "at": {}, "this": {}, "but": {},
	"by": {}, "from": {},
}

const wordPunct = ".,!?;:'\"-()[]{}"

// tokenizeAndFilter lowercases text, trims punctuation from each word
// and drops stop words.
func tokenizeAndFilter(text string) []string {
	var filtered []string
	for _, word := range strings.Fields(text) {
		cleaned := strings.Trim(strings.ToLower(word), wordPunct)
		if cleaned == "" {
			continue
		}
		if _, stop := stopWords[cleaned]; stop {
			continue
		}
		filtered = append(filtered, cleaned)
	}
	return filtered
}

// containsAllQueryWords reports whether every filtered query word
// appears somewhere in the document.
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := make(map[string]struct{})
	for _, word := range tokenizeAndFilter(document) {
		docWords[word] = struct{}{}
	}

	for _, qWord := range queryWords {
		if _, ok := docWords[qWord]; !ok {
			return false
		}
	}
	return true
}
