package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"bpetrain/internal/pkg/bpetrain/corpus"
	"bpetrain/internal/pkg/bpetrain/trainer"
	"bpetrain/internal/pkg/bpetrain/vocab"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"-n", "500", "data.txt"})
	require.NoError(t, err)

	require.Equal(t, "data.txt", cfg.CorpusPath)
	require.Equal(t, 500, cfg.VocabSize)
	require.Equal(t, vocab.DefaultAlphabet, cfg.BaseVocab)
	require.Equal(t, "vocab.txt", cfg.VocabOut)
	require.Equal(t, "merges.json", cfg.MergesOut)
	require.Equal(t, trainer.StrategyFold, cfg.Strategy)
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Equal(t, 100, cfg.ProgressEvery)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, corpus.NormalizeNone, cfg.Normalization())
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"-i", "corpus.txt",
		"--extra-merges", "3",
		"-b", "abc ",
		"--strategy", "substring",
		"-w", "2",
		"--normalize", "nfc",
		"--vocab-out", "out/v.txt",
		"--merges-out", "out/m.json",
	})
	require.NoError(t, err)

	require.Equal(t, "corpus.txt", cfg.CorpusPath)
	require.Equal(t, "substring", cfg.Strategy)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, corpus.NormalizeNFC, cfg.Normalization())
	require.Equal(t, "out/v.txt", cfg.VocabOut)
	require.Equal(t, "out/m.json", cfg.MergesOut)

	base, err := cfg.BaseSymbols(afero.NewMemMapFs())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", " "}, base)
	require.Equal(t, 7, cfg.TargetSize(len(base)))
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bpetrain.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus = "from-file.txt"
vocab_size = 300
strategy = "retokenize-all"
progress_every = 10
`), 0644))

	cfg, err := Parse([]string{"--config", path, "--vocab-size", "400"})
	require.NoError(t, err)

	require.Equal(t, "from-file.txt", cfg.CorpusPath)
	require.Equal(t, 400, cfg.VocabSize)
	require.Equal(t, "retokenize-all", cfg.Strategy)
	require.Equal(t, 10, cfg.ProgressEvery)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("BPETRAIN_VOCAB_SIZE", "123")
	t.Setenv("BPETRAIN_LOG_LEVEL", "debug")

	cfg, err := Parse([]string{"data.txt"})
	require.NoError(t, err)
	require.Equal(t, 123, cfg.VocabSize)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"missing corpus", []string{"-n", "10"}},
		{"missing size", []string{"data.txt"}},
		{"negative size", []string{"-n", "-1", "data.txt"}},
		{"unknown strategy", []string{"-n", "10", "--strategy", "magic", "data.txt"}},
		{"bad normalization", []string{"-n", "10", "--normalize", "nfd", "data.txt"}},
		{"bad workers", []string{"-n", "10", "-w", "-2", "data.txt"}},
		{"unknown flag", []string{"--bogus"}},
		{"zero size", []string{"-n", "0", "data.txt"}},
		{"negative extra merges", []string{"--extra-merges", "-1", "data.txt"}},
		{"size and extra merges", []string{"-n", "10", "--extra-merges", "2", "data.txt"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.args)
			require.Error(t, err)
		})
	}

	_, err := Parse([]string{"-n", "10", "--strategy", "magic", "data.txt"})
	require.ErrorIs(t, err, trainer.ErrConfiguration)
}

func TestParseZeroExtraMerges(t *testing.T) {
	cfg, err := Parse([]string{"--extra-merges", "0", "-b", "ab", "data.txt"})
	require.NoError(t, err)
	require.Equal(t, 2, cfg.TargetSize(2))
}

func TestParseExtraMergesFromConfigWithSizeFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bpetrain.toml")
	require.NoError(t, os.WriteFile(path, []byte("extra_merges = 5\n"), 0644))

	_, err := Parse([]string{"--config", path, "-n", "40", "data.txt"})
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"})
	require.ErrorIs(t, err, pflag.ErrHelp)
}

func TestBaseSymbolsFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "base.txt", []byte("l\no\nw\n \n"), 0644))

	cfg := &Config{BaseVocab: "xyz", BaseVocabFile: "base.txt"}
	base, err := cfg.BaseSymbols(fs)
	require.NoError(t, err)
	require.Equal(t, []string{"l", "o", "w", " "}, base)
}
