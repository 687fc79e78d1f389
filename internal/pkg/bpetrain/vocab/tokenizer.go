package vocab

import "unicode/utf8"

// Tokenize segments word greedily: at each position it takes the longest
// vocabulary symbol that is a prefix of the rest of the word. When nothing
// matches, the single character at that position is emitted as is.
func (v *Vocabulary) Tokenize(word string) []string {
	tokens := make([]string, 0, len(word))

	remaining := word
	for len(remaining) > 0 {
		found := false
		for _, n := range v.lengths {
			if n > len(remaining) {
				continue
			}
			if _, ok := v.index[remaining[:n]]; ok {
				tokens = append(tokens, remaining[:n])
				remaining = remaining[n:]
				found = true
				break
			}
		}
		if !found {
			_, size := utf8.DecodeRuneInString(remaining)
			tokens = append(tokens, remaining[:size])
			remaining = remaining[size:]
		}
	}

	return tokens
}
