// Package corpus turns raw training text into the distinct words and
// counts the trainer works on.
package corpus

import "strings"

// Segment splits text immediately before every space, so each space
// becomes the first character of the word that follows it. Joining the
// result reproduces text exactly.
func Segment(text string) []string {
	if text == "" {
		return nil
	}

	words := make([]string, 0, strings.Count(text, " ")+1)
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] == ' ' {
			words = append(words, text[start:i])
			start = i
		}
	}
	words = append(words, text[start:])

	return words
}
