package trainer

import (
	"errors"

	"bpetrain/internal/pkg/bpetrain/corpus"
)

var (
	// ErrInput is returned when the corpus cannot be read.
	ErrInput = corpus.ErrInput
	// ErrConfiguration is returned for a target size or base vocabulary
	// that training cannot start from.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant means the training state became inconsistent, for
	// example a merge producing a symbol that is already in the vocabulary.
	ErrInvariant = errors.New("invariant violation")
)
