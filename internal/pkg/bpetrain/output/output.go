// Package output persists a trained vocabulary and merge list.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"bpetrain/internal/pkg/bpetrain/vocab"
)

const (
	DefaultVocabPath  = "vocab.txt"
	DefaultMergesPath = "merges.json"
)

// SaveVocabulary writes one symbol per line in vocabulary order.
func SaveVocabulary(fs afero.Fs, path string, symbols []string) error {
	return writeAtomic(fs, path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, s := range symbols {
			if _, err := bw.WriteString(s); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}

// SaveMerges writes the merge list as a JSON array of [left, right] pairs.
func SaveMerges(fs afero.Fs, path string, merges []vocab.Merge) error {
	if merges == nil {
		merges = []vocab.Merge{}
	}
	return writeAtomic(fs, path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(merges)
	})
}

// LoadMerges reads a merge list written by SaveMerges.
func LoadMerges(fs afero.Fs, path string) ([]vocab.Merge, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read merges: %w", err)
	}

	var merges []vocab.Merge
	if err := json.Unmarshal(data, &merges); err != nil {
		return nil, fmt.Errorf("failed to parse merges: %w", err)
	}

	return merges, nil
}

// writeAtomic writes into a temporary file next to path and renames it
// into place, so a failed write never leaves a partial file at path.
func writeAtomic(fs afero.Fs, path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()

	if err := write(f); err != nil {
		f.Close()
		fs.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}

	return nil
}
