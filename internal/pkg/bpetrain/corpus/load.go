package corpus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// ErrInput marks a corpus that could not be read.
var ErrInput = errors.New("input error")

type Normalization string

const (
	NormalizeNone Normalization = "none"
	NormalizeNFC  Normalization = "nfc"
	NormalizeNFKC Normalization = "nfkc"
)

func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(strings.ToLower(strings.TrimSpace(s))); n {
	case "", NormalizeNone:
		return NormalizeNone, nil
	case NormalizeNFC, NormalizeNFKC:
		return n, nil
	default:
		return "", fmt.Errorf("unknown normalization %q (want none, nfc or nfkc)", s)
	}
}

func (n Normalization) Apply(text string) string {
	switch n {
	case NormalizeNFC:
		return norm.NFC.String(text)
	case NormalizeNFKC:
		return norm.NFKC.String(text)
	default:
		return text
	}
}

// Load reads the whole corpus at path and applies the normalization.
func Load(fs afero.Fs, path string, n Normalization) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: corpus path is empty", ErrInput)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read corpus: %w", ErrInput, err)
	}

	return n.Apply(string(data)), nil
}
