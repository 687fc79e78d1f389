package corpus

// Frequencies counts occurrences of each distinct word. Words are kept in
// the order they were first seen so iteration over them is reproducible.
type Frequencies struct {
	words  []string
	counts map[string]int64
	total  int64
}

func Count(words []string) *Frequencies {
	f := &Frequencies{
		counts: make(map[string]int64),
	}
	for _, w := range words {
		if _, ok := f.counts[w]; !ok {
			f.words = append(f.words, w)
		}
		f.counts[w]++
		f.total++
	}
	return f
}

// CountText segments text and counts its words.
func CountText(text string) *Frequencies {
	return Count(Segment(text))
}

// Words returns the distinct words in first-seen order. The slice must not
// be modified.
func (f *Frequencies) Words() []string {
	return f.words
}

func (f *Frequencies) Count(word string) int64 {
	return f.counts[word]
}

// Len is the number of distinct words.
func (f *Frequencies) Len() int {
	return len(f.words)
}

// Total is the number of words in the corpus, repeats included.
func (f *Frequencies) Total() int64 {
	return f.total
}
