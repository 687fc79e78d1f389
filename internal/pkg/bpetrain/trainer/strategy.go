package trainer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"bpetrain/internal/pkg/bpetrain/vocab"
)

// Strategy brings the cache up to date after m has been appended to v.
// It returns how many words were re-tokenized.
type Strategy interface {
	Update(c *Cache, v *vocab.Vocabulary, m vocab.Merge) int
}

type StrategyFactory func() Strategy

const (
	StrategyFold          = "fold"
	StrategyFoldOnly      = "fold-only"
	StrategyRetokenizeAll = "retokenize-all"
	StrategySubstring     = "substring"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]StrategyFactory)
)

func init() {
	RegisterStrategy(StrategyFold, func() Strategy { return foldStrategy{} })
	RegisterStrategy(StrategyFoldOnly, func() Strategy { return foldOnlyStrategy{} })
	RegisterStrategy(StrategyRetokenizeAll, func() Strategy { return retokenizeAllStrategy{} })
	RegisterStrategy(StrategySubstring, func() Strategy { return substringStrategy{} })
}

func RegisterStrategy(name string, factory StrategyFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("trainer: RegisterStrategy factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("trainer: RegisterStrategy called twice for " + name)
	}
	registry[name] = factory
}

func NewStrategy(name string) (Strategy, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q (registered: %v)", ErrConfiguration, name, Strategies())
	}
	return factory(), nil
}

// Strategies lists registered strategy names, sorted.
func Strategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// foldStrategy folds the merged pair inside each cached sequence and
// re-tokenizes the raw word when that changed something. A word the fold
// left alone is still re-tokenized if it contains the new symbol, since a
// longest match may now start inside one of its existing tokens.
type foldStrategy struct{}

func (foldStrategy) Update(c *Cache, v *vocab.Vocabulary, m vocab.Merge) int {
	symbol := m.Symbol()
	n := 0
	for i := range c.entries {
		e := &c.entries[i]
		_, changed := vocab.Fold(e.tokens, m)
		if changed || strings.Contains(e.word, symbol) {
			e.tokens = v.Tokenize(e.word)
			n++
		}
	}
	return n
}

// foldOnlyStrategy re-tokenizes only the words where the fold changed
// something. Cached sequences can go stale, so a later pair may join into
// a symbol that already exists and stop training with ErrInvariant.
type foldOnlyStrategy struct{}

func (foldOnlyStrategy) Update(c *Cache, v *vocab.Vocabulary, m vocab.Merge) int {
	n := 0
	for i := range c.entries {
		e := &c.entries[i]
		if _, changed := vocab.Fold(e.tokens, m); changed {
			e.tokens = v.Tokenize(e.word)
			n++
		}
	}
	return n
}

// retokenizeAllStrategy re-tokenizes every word after every merge.
type retokenizeAllStrategy struct{}

func (retokenizeAllStrategy) Update(c *Cache, v *vocab.Vocabulary, _ vocab.Merge) int {
	for i := range c.entries {
		c.entries[i].tokens = v.Tokenize(c.entries[i].word)
	}
	return len(c.entries)
}

// substringStrategy re-tokenizes only the words that contain the new
// symbol. A word without it tokenizes the same way before and after the
// merge, so the result always equals retokenizeAllStrategy.
type substringStrategy struct{}

func (substringStrategy) Update(c *Cache, v *vocab.Vocabulary, m vocab.Merge) int {
	symbol := m.Symbol()
	n := 0
	for i := range c.entries {
		e := &c.entries[i]
		if strings.Contains(e.word, symbol) {
			e.tokens = v.Tokenize(e.word)
			n++
		}
	}
	return n
}
