// Command spellcheck reports the words of a text file that are missing from a
// dictionary, using a Bloom filter as the dictionary.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hasssanezzz/bloomspell/internal/logging"
	"github.com/hasssanezzz/bloomspell/internal/spell"
	"github.com/hasssanezzz/bloomspell/shared"
	"github.com/spf13/pflag"
)

func parseFlags(args []string) (*shared.Config, string, error) {
	fs := pflag.NewFlagSet("spellcheck", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Spell checking utility for a body of text using a list of correctly spelled words")
		fmt.Fprintln(os.Stderr, "\nUsage: spellcheck [options] TXT_FILE\n\nOptions:")
		fs.PrintDefaults()
	}
	shared.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", fmt.Errorf("expected exactly one TXT_FILE, got %d", fs.NArg())
	}

	cfg, err := shared.Load(fs)
	if err != nil {
		return nil, "", err
	}
	return cfg, fs.Arg(0), nil
}

func run(ctx context.Context, cfg *shared.Config, textFile string, stdout io.Writer, logger *slog.Logger) error {
	filter, err := cfg.NewFilter()
	if err != nil {
		return fmt.Errorf("can not create filter: %w", err)
	}

	loader := &spell.Loader{Workers: cfg.Workers, Logger: logger}
	words, err := loader.LoadFile(ctx, cfg.Dictionary, filter)
	if err != nil {
		return err
	}
	logger.Info("dictionary ready", "path", cfg.Dictionary, "words", words, "bits", filter.Size(), "strategy", cfg.Strategy)

	f, err := os.Open(textFile)
	if err != nil {
		return fmt.Errorf("can not open text: %w", err)
	}
	defer f.Close()

	misspelled, err := spell.Misspelled(f, filter)
	if err != nil {
		return err
	}
	logger.Debug("text checked", "path", textFile, "misspelled", len(misspelled))

	fmt.Fprintln(stdout, "Misspelled words:", misspelled)
	fmt.Fprintln(stdout)
	return nil
}

func main() {
	cfg, textFile, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "spellcheck:", err)
		os.Exit(2)
	}

	logger, closer := logging.New(cfg.LoggingConfig("spellcheck"))
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, textFile, os.Stdout, logger); err != nil {
		logger.Error("spellcheck failed", "error", err)
		closer.Close()
		os.Exit(1)
	}
}
