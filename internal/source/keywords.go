package source

import "strings"

const maxKeywords = 10

var stopwords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {},
	"of": {}, "to": {}, "for": {}, "with": {}, "on": {}, "at": {},
}

// Keywords derives search terms from free-text job requirements. The split is
// comma-based when commas are present, otherwise whitespace-based; stopwords
// and tokens of length <= 3 are dropped, and the result is capped at ten
// terms. A heuristic, not semantics; connectors may swap it for real NLP
// without changing their contract.
func Keywords(requirements string) []string {
	var tokens []string
	if strings.Contains(requirements, ",") {
		tokens = strings.Split(requirements, ",")
	} else {
		tokens = strings.Fields(requirements)
	}

	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word := strings.ToLower(strings.TrimSpace(token))
		if len(word) <= 3 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}
