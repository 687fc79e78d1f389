package trainer

import (
	"bpetrain/internal/pkg/bpetrain/corpus"
	"bpetrain/internal/pkg/bpetrain/vocab"
)

type entry struct {
	word   string
	freq   int64
	tokens []string
}

// Cache holds the current tokenization of every distinct corpus word.
type Cache struct {
	entries []entry
}

// NewCache tokenizes every distinct word once against v.
func NewCache(freqs *corpus.Frequencies, v *vocab.Vocabulary) *Cache {
	words := freqs.Words()
	c := &Cache{
		entries: make([]entry, len(words)),
	}
	for i, w := range words {
		c.entries[i] = entry{
			word:   w,
			freq:   freqs.Count(w),
			tokens: v.Tokenize(w),
		}
	}
	return c
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Snapshot copies every cached tokenization into a map keyed by word.
func (c *Cache) Snapshot() map[string][]string {
	out := make(map[string][]string, len(c.entries))
	for _, e := range c.entries {
		tokens := make([]string, len(e.tokens))
		copy(tokens, e.tokens)
		out[e.word] = tokens
	}
	return out
}
