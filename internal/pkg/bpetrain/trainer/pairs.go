package trainer

import (
	"github.com/sourcegraph/conc/pool"
)

// Pair is two symbols found next to each other in a tokenization.
type Pair struct {
	Left  string
	Right string
}

// PairCounts maps each adjacent pair to its frequency-weighted count.
type PairCounts map[Pair]int64

func (pc PairCounts) add(other PairCounts) {
	for p, n := range other {
		pc[p] += n
	}
}

func countEntries(entries []entry) PairCounts {
	counts := make(PairCounts)
	for _, e := range entries {
		for i := 0; i+1 < len(e.tokens); i++ {
			counts[Pair{Left: e.tokens[i], Right: e.tokens[i+1]}] += e.freq
		}
	}
	return counts
}

// CountPairs counts adjacent pairs across the cache, weighting each
// occurrence by the frequency of its word.
func CountPairs(c *Cache) PairCounts {
	return countEntries(c.entries)
}

// CountPairsParallel splits the cache into contiguous shards counted on
// up to workers goroutines. Counts are integer sums, so the result equals
// CountPairs regardless of scheduling.
func CountPairsParallel(c *Cache, workers int) PairCounts {
	if workers <= 1 || len(c.entries) < 2*workers {
		return CountPairs(c)
	}

	shard := (len(c.entries) + workers - 1) / workers
	p := pool.NewWithResults[PairCounts]().WithMaxGoroutines(workers)
	for start := 0; start < len(c.entries); start += shard {
		end := min(start+shard, len(c.entries))
		entries := c.entries[start:end]
		p.Go(func() PairCounts {
			return countEntries(entries)
		})
	}

	counts := make(PairCounts)
	for _, local := range p.Wait() {
		counts.add(local)
	}
	return counts
}
