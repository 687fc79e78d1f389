package vocab

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// DefaultAlphabet is the base character set used when none is configured.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()_+-=[]{}|;':,.<>/?`~ " +
	"\\" +
	"\""

// Characters splits s into one symbol per character, in order.
func Characters(s string) []string {
	symbols := make([]string, 0, len(s))
	for _, r := range s {
		symbols = append(symbols, string(r))
	}
	return symbols
}

// ReadSymbols loads a base vocabulary with one symbol per line. Lines are
// kept verbatim (a line holding a single space is the space symbol);
// empty lines are skipped.
func ReadSymbols(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open base vocabulary: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		symbols = append(symbols, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read base vocabulary: %w", err)
	}

	return symbols, nil
}
