// Package trainer learns a BPE vocabulary and merge list from word
// frequencies by repeatedly merging the most frequent adjacent pair.
package trainer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"bpetrain/internal/pkg/bpetrain/corpus"
	"bpetrain/internal/pkg/bpetrain/vocab"
)

type Status int

const (
	// Complete means the vocabulary reached the target size.
	Complete Status = iota
	// Exhausted means no adjacent pairs were left before the target.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Step describes one accepted merge.
type Step struct {
	Merge     vocab.Merge
	Count     int64
	VocabSize int
	Target    int
	// Retokenized is the number of cached words rebuilt for this merge.
	Retokenized int
}

type Options struct {
	// TargetSize is the final vocabulary size, base symbols included.
	TargetSize int
	// Strategy names the cache update strategy; empty means StrategyFold.
	Strategy string
	// Workers bounds parallel pair counting. Zero uses runtime.NumCPU,
	// one counts sequentially.
	Workers int
	// ProgressEvery logs an info progress event every n merges; zero
	// disables them.
	ProgressEvery int
	// Logger receives progress events; nil discards them.
	Logger *zerolog.Logger
	// OnMerge, if set, is called after every accepted merge.
	OnMerge func(Step)
}

type Result struct {
	Vocabulary []string
	Merges     []vocab.Merge
	Requested  int
	Status     Status
	// Tokenizations holds the final cached tokenization of each word.
	Tokenizations map[string][]string
}

// Trainer owns the vocabulary, merge list and tokenization cache of one
// training run. It is not safe for concurrent use.
type Trainer struct {
	opts     Options
	strategy Strategy
	log      zerolog.Logger

	vocab  *vocab.Vocabulary
	merges []vocab.Merge
	cache  *Cache
}

// New validates the base vocabulary and options. The base vocabulary
// should cover every character in the corpus; characters it misses are
// still tokenized, as single-character symbols outside the vocabulary.
func New(base []string, opts Options) (*Trainer, error) {
	v, err := vocab.New(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if opts.TargetSize < v.Len() {
		return nil, fmt.Errorf("%w: target vocabulary size %d is smaller than base vocabulary size %d",
			ErrConfiguration, opts.TargetSize, v.Len())
	}

	if opts.Strategy == "" {
		opts.Strategy = StrategyFold
	}
	strategy, err := NewStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}

	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative", ErrConfiguration)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Trainer{
		opts:     opts,
		strategy: strategy,
		log:      logger.With().Str("component", "trainer").Logger(),
		vocab:    v,
	}, nil
}

// Train runs the merge loop over freqs until the vocabulary reaches the
// target size or no pairs remain. A Trainer can only be trained once.
func (t *Trainer) Train(freqs *corpus.Frequencies) (*Result, error) {
	if t.cache != nil {
		return nil, errors.New("trainer already used")
	}

	t.cache = NewCache(freqs, t.vocab)
	t.log.Debug().
		Int("distinct_words", t.cache.Len()).
		Int64("total_words", freqs.Total()).
		Int("base_size", t.vocab.Len()).
		Int("target", t.opts.TargetSize).
		Str("strategy", t.opts.Strategy).
		Msg("Tokenization cache built")

	status := Complete
	for t.vocab.Len() != t.opts.TargetSize {
		counts := CountPairsParallel(t.cache, t.opts.Workers)
		pair, count, ok := SelectPair(counts)
		if !ok {
			status = Exhausted
			break
		}

		step, err := t.apply(pair, count)
		if err != nil {
			return nil, err
		}
		t.report(step)
	}

	if status == Exhausted {
		t.log.Warn().
			Int("requested", t.opts.TargetSize).
			Int("actual", t.vocab.Len()).
			Msg("No pairs left to merge, vocabulary is smaller than requested")
	}

	merges := make([]vocab.Merge, len(t.merges))
	copy(merges, t.merges)

	return &Result{
		Vocabulary:    t.vocab.Symbols(),
		Merges:        merges,
		Requested:     t.opts.TargetSize,
		Status:        status,
		Tokenizations: t.cache.Snapshot(),
	}, nil
}

// TrainText segments and counts text, then trains on it.
func (t *Trainer) TrainText(text string) (*Result, error) {
	return t.Train(corpus.CountText(text))
}

// apply appends the merged symbol and merge record and updates the cache.
func (t *Trainer) apply(p Pair, count int64) (Step, error) {
	m := vocab.Merge{Left: p.Left, Right: p.Right}
	if err := t.vocab.Append(m.Symbol()); err != nil {
		return Step{}, fmt.Errorf("%w: merge %d %s: %w", ErrInvariant, len(t.merges)+1, m, err)
	}
	t.merges = append(t.merges, m)

	retokenized := t.strategy.Update(t.cache, t.vocab, m)

	return Step{
		Merge:       m,
		Count:       count,
		VocabSize:   t.vocab.Len(),
		Target:      t.opts.TargetSize,
		Retokenized: retokenized,
	}, nil
}

func (t *Trainer) report(step Step) {
	t.log.Debug().
		Str("left", step.Merge.Left).
		Str("right", step.Merge.Right).
		Int64("count", step.Count).
		Int("retokenized", step.Retokenized).
		Int("vocab_size", step.VocabSize).
		Msg("Merged pair")

	n := len(t.merges)
	if t.opts.ProgressEvery > 0 && (n%t.opts.ProgressEvery == 0 || step.VocabSize == step.Target) {
		t.log.Info().
			Int("vocab_size", step.VocabSize).
			Int("target", step.Target).
			Float64("percent", 100*float64(step.VocabSize)/float64(step.Target)).
			Str("symbol", step.Merge.Symbol()).
			Int64("count", step.Count).
			Msg("Training progress")
	}

	if t.opts.OnMerge != nil {
		t.opts.OnMerge(step)
	}
}
