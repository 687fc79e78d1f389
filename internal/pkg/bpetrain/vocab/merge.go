package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Merge records one training decision: Left followed by Right became
// the symbol Left+Right.
type Merge struct {
	Left  string
	Right string
}

func (m Merge) Symbol() string {
	return m.Left + m.Right
}

func (m Merge) String() string {
	return fmt.Sprintf("(%q, %q)", m.Left, m.Right)
}

// MarshalJSON encodes a merge as a two-element array. Symbols are written
// without HTML escaping.
func (m Merge) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([2]string{m.Left, m.Right}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (m *Merge) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("merge must have 2 elements, got %d", len(pair))
	}
	m.Left, m.Right = pair[0], pair[1]
	return nil
}

// Fold replaces every adjacent (Left, Right) in tokens with the merged
// symbol, scanning left to right without overlap. The input is not
// modified; changed reports whether anything was folded.
func Fold(tokens []string, m Merge) (folded []string, changed bool) {
	n := len(tokens)
	for i := 0; i+1 < n; i++ {
		if tokens[i] == m.Left && tokens[i+1] == m.Right {
			changed = true
			break
		}
	}
	if !changed {
		return tokens, false
	}

	symbol := m.Symbol()
	folded = make([]string, 0, n-1)
	for i := 0; i < n; {
		if i+1 < n && tokens[i] == m.Left && tokens[i+1] == m.Right {
			folded = append(folded, symbol)
			i += 2
			continue
		}
		folded = append(folded, tokens[i])
		i++
	}

	return folded, true
}

// Replay rebuilds the tokenization of word by starting from the base
// vocabulary and applying merges in order. After each merge whose fold
// touches the word, or whose symbol occurs in the word, the word is
// re-tokenized against the grown vocabulary, which is how the trainer's
// default strategy keeps its cache.
func Replay(base []string, merges []Merge, word string) ([]string, error) {
	v, err := New(base)
	if err != nil {
		return nil, err
	}

	tokens := v.Tokenize(word)
	for i, m := range merges {
		if err := v.Append(m.Symbol()); err != nil {
			return nil, fmt.Errorf("merge %d %s: %w", i, m, err)
		}
		if _, changed := Fold(tokens, m); changed || strings.Contains(word, m.Symbol()) {
			tokens = v.Tokenize(word)
		}
	}

	return tokens, nil
}
