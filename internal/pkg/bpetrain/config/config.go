package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bpetrain/internal/pkg/bpetrain/corpus"
	"bpetrain/internal/pkg/bpetrain/output"
	"bpetrain/internal/pkg/bpetrain/trainer"
	"bpetrain/internal/pkg/bpetrain/vocab"
)

type Config struct {
	CorpusPath    string `mapstructure:"corpus"`
	VocabSize     int    `mapstructure:"vocab_size"`
	ExtraMerges   int    `mapstructure:"extra_merges"`
	BaseVocab     string `mapstructure:"base_vocab"`
	BaseVocabFile string `mapstructure:"base_vocab_file"`
	VocabOut      string `mapstructure:"vocab_out"`
	MergesOut     string `mapstructure:"merges_out"`
	Strategy      string `mapstructure:"strategy"`
	Workers       int    `mapstructure:"workers"`
	ProgressEvery int    `mapstructure:"progress_every"`
	Normalize     string `mapstructure:"normalize"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
}

// LoadAndParse reads flags from os.Args, the optional config file and
// BPETRAIN_* environment variables.
func LoadAndParse() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse is LoadAndParse with explicit arguments. It returns pflag.ErrHelp
// after printing usage when -h is given.
func Parse(args []string) (*Config, error) {
	v := viper.New()
	v.SetDefault("corpus", "")
	v.SetDefault("base_vocab", vocab.DefaultAlphabet)
	v.SetDefault("base_vocab_file", "")
	v.SetDefault("vocab_out", output.DefaultVocabPath)
	v.SetDefault("merges_out", output.DefaultMergesPath)
	v.SetDefault("strategy", trainer.StrategyFold)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("progress_every", 100)
	v.SetDefault("normalize", string(corpus.NormalizeNone))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	flagSet := pflag.NewFlagSet("bpetrain", pflag.ContinueOnError)
	configFile := flagSet.StringP("config", "c", "", "Path to config file")
	flagSet.StringP("corpus", "i", "", "Path to the training corpus")
	flagSet.IntP("vocab-size", "n", 0, "Target vocabulary size, base symbols included")
	flagSet.Int("extra-merges", 0, "Number of merges to learn on top of the base vocabulary (instead of --vocab-size)")
	flagSet.StringP("base-vocab", "b", "", "Base vocabulary, one symbol per character")
	flagSet.String("base-vocab-file", "", "Base vocabulary file, one symbol per line")
	flagSet.String("vocab-out", "", "Output vocabulary file")
	flagSet.String("merges-out", "", "Output merges JSON file")
	flagSet.String("strategy", "", fmt.Sprintf("Cache update strategy (%s)", strings.Join(trainer.Strategies(), ", ")))
	flagSet.IntP("workers", "w", 0, "Goroutines used for pair counting (1 disables parallelism)")
	flagSet.Int("progress-every", 0, "Log progress every N merges (0 disables)")
	flagSet.String("normalize", "", "Unicode normalization applied to the corpus (none, nfc, nfkc)")
	flagSet.StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	flagSet.String("log-file", "", "Log file path")
	helpFlag := flagSet.BoolP("help", "h", false, "Show help message")

	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *helpFlag {
		fmt.Fprintf(os.Stderr, "Usage: bpetrain [options] [corpus]\n\nOptions:\n")
		flagSet.PrintDefaults()
		return nil, pflag.ErrHelp
	}

	bindings := map[string]string{
		"corpus":          "corpus",
		"vocab_size":      "vocab-size",
		"extra_merges":    "extra-merges",
		"base_vocab":      "base-vocab",
		"base_vocab_file": "base-vocab-file",
		"vocab_out":       "vocab-out",
		"merges_out":      "merges-out",
		"strategy":        "strategy",
		"workers":         "workers",
		"progress_every":  "progress-every",
		"normalize":       "normalize",
		"log_level":       "log-level",
		"log_file":        "log-file",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("bpetrain.cfg")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bpetrain"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("BPETRAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.CorpusPath == "" {
		if rest := flagSet.Args(); len(rest) > 0 {
			cfg.CorpusPath = rest[0]
		}
	}

	if err := cfg.validate(v.IsSet("vocab_size"), v.IsSet("extra_merges")); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the resolved settings. Exactly one of vocab_size and
// extra_merges must be given; extra_merges may be zero, which trains
// nothing and writes the base vocabulary.
func (c *Config) validate(sizeSet, extraSet bool) error {
	if c.CorpusPath == "" {
		return fmt.Errorf("corpus is required (use -i or provide as argument)")
	}
	switch {
	case sizeSet && extraSet:
		return fmt.Errorf("vocab size and extra merges are mutually exclusive")
	case !sizeSet && !extraSet:
		return fmt.Errorf("vocab size is required (use -n or --extra-merges)")
	case sizeSet && c.VocabSize <= 0:
		return fmt.Errorf("vocab size must be positive")
	case extraSet && c.ExtraMerges < 0:
		return fmt.Errorf("extra merges must not be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress every must not be negative")
	}
	if _, err := corpus.ParseNormalization(c.Normalize); err != nil {
		return err
	}
	if _, err := trainer.NewStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// BaseSymbols returns the configured base vocabulary. A base vocabulary
// file takes precedence over the inline character list.
func (c *Config) BaseSymbols(fs afero.Fs) ([]string, error) {
	if c.BaseVocabFile != "" {
		return vocab.ReadSymbols(fs, c.BaseVocabFile)
	}
	return vocab.Characters(c.BaseVocab), nil
}

// TargetSize resolves the requested vocabulary size for a base vocabulary
// of baseSize symbols.
func (c *Config) TargetSize(baseSize int) int {
	if c.VocabSize > 0 {
		return c.VocabSize
	}
	return baseSize + c.ExtraMerges
}

func (c *Config) Normalization() corpus.Normalization {
	n, _ := corpus.ParseNormalization(c.Normalize)
	return n
}
