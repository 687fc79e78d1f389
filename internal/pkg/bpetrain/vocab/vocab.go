// Package vocab holds the ordered symbol vocabulary grown during BPE
// training and the greedy longest-match tokenizer that reads it.
package vocab

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrEmptySymbol     = errors.New("empty symbol")
)

// Vocabulary is an insertion-ordered set of symbols. It only grows.
type Vocabulary struct {
	symbols []string
	index   map[string]int
	// distinct symbol lengths in bytes, longest first
	lengths []int
}

func New(base []string) (*Vocabulary, error) {
	v := &Vocabulary{
		symbols: make([]string, 0, len(base)),
		index:   make(map[string]int, len(base)),
	}

	for _, s := range base {
		if err := v.Append(s); err != nil {
			return nil, fmt.Errorf("invalid base vocabulary: %w", err)
		}
	}

	return v, nil
}

// Append adds a symbol at the end of the vocabulary.
func (v *Vocabulary) Append(symbol string) error {
	if symbol == "" {
		return ErrEmptySymbol
	}
	if _, ok := v.index[symbol]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSymbol, symbol)
	}

	v.index[symbol] = len(v.symbols)
	v.symbols = append(v.symbols, symbol)
	v.addLength(len(symbol))

	return nil
}

func (v *Vocabulary) addLength(n int) {
	i := sort.Search(len(v.lengths), func(i int) bool {
		return v.lengths[i] <= n
	})
	if i < len(v.lengths) && v.lengths[i] == n {
		return
	}
	v.lengths = append(v.lengths, 0)
	copy(v.lengths[i+1:], v.lengths[i:])
	v.lengths[i] = n
}

func (v *Vocabulary) Len() int {
	return len(v.symbols)
}

// Symbols returns a copy of the vocabulary in insertion order.
func (v *Vocabulary) Symbols() []string {
	out := make([]string, len(v.symbols))
	copy(out, v.symbols)
	return out
}
