package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"bpetrain/internal/pkg/bpetrain/config"
	"bpetrain/internal/pkg/bpetrain/corpus"
	"bpetrain/internal/pkg/bpetrain/output"
	"bpetrain/internal/pkg/bpetrain/trainer"
)

func main() {
	fmt.Fprintf(os.Stderr, "bpetrain %s\n", Version)

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadAndParse()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("Failed to parse configuration")
	}

	if err := setupLogging(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup logging")
	}

	log.Debug().
		Str("corpus", cfg.CorpusPath).
		Int("vocab_size", cfg.VocabSize).
		Int("extra_merges", cfg.ExtraMerges).
		Str("strategy", cfg.Strategy).
		Int("workers", cfg.Workers).
		Str("normalize", cfg.Normalize).
		Msg("Configuration loaded")

	fs := afero.NewOsFs()
	if err := run(fs, cfg); err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}
}

func run(fs afero.Fs, cfg *config.Config) error {
	base, err := cfg.BaseSymbols(fs)
	if err != nil {
		return fmt.Errorf("%w: %w", trainer.ErrConfiguration, err)
	}

	text, err := corpus.Load(fs, cfg.CorpusPath, cfg.Normalization())
	if err != nil {
		return err
	}

	freqs := corpus.CountText(text)
	log.Info().
		Str("corpus", cfg.CorpusPath).
		Int("bytes", len(text)).
		Int64("words", freqs.Total()).
		Int("distinct_words", freqs.Len()).
		Msg("Corpus loaded")

	logger := log.Logger
	t, err := trainer.New(base, trainer.Options{
		TargetSize:    cfg.TargetSize(len(base)),
		Strategy:      cfg.Strategy,
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        &logger,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("base_size", len(base)).
		Int("target", cfg.TargetSize(len(base))).
		Msg("Training...")
	startTime := time.Now()

	result, err := t.Train(freqs)
	if err != nil {
		return err
	}

	log.Info().
		Dur("elapsed", time.Since(startTime)).
		Int("vocab_size", len(result.Vocabulary)).
		Int("merges", len(result.Merges)).
		Stringer("status", result.Status).
		Msg("Training finished")

	if err := output.SaveVocabulary(fs, cfg.VocabOut, result.Vocabulary); err != nil {
		return fmt.Errorf("failed to save vocabulary: %w", err)
	}
	if err := output.SaveMerges(fs, cfg.MergesOut, result.Merges); err != nil {
		return fmt.Errorf("failed to save merges: %w", err)
	}

	log.Info().
		Str("vocab", cfg.VocabOut).
		Str("merges", cfg.MergesOut).
		Msg("Vocabulary and merges saved successfully")

	return nil
}

func setupLogging(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	return nil
}
