// Command bloomd serves add and check over HTTP for a single in-memory
// Bloom filter, optionally preloaded from a dictionary.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasssanezzz/bloomspell/cmd/api"
	"github.com/hasssanezzz/bloomspell/internal/logging"
	"github.com/hasssanezzz/bloomspell/internal/spell"
	"github.com/hasssanezzz/bloomspell/shared"
	"github.com/spf13/pflag"
)

func parseFlags(args []string) (*shared.Config, string, bool, error) {
	fs := pflag.NewFlagSet("bloomd", pflag.ContinueOnError)
	addr := fs.StringP("addr", "a", ":3011", "Host to bind the server to")
	debug := fs.BoolP("debug", "d", false, "Debug mode")
	shared.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, "", false, err
	}

	cfg, err := shared.Load(fs)
	if err != nil {
		return nil, "", false, err
	}
	return cfg, *addr, *debug, nil
}

func main() {
	cfg, addr, debug, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "bloomd:", err)
		os.Exit(2)
	}

	logger, closer := logging.New(cfg.LoggingConfig("bloomd"))
	defer closer.Close()

	if debug {
		logger.Info("debug mode, pprof on localhost:6060")
		go func() {
			http.ListenAndServe("localhost:6060", nil)
		}()
	}

	filter, err := cfg.NewFilter()
	if err != nil {
		logger.Error("can not create filter", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Dictionary != "" {
		loader := &spell.Loader{Workers: cfg.Workers, Logger: logger}
		words, err := loader.LoadFile(ctx, cfg.Dictionary, filter)
		if err != nil {
			logger.Error("can not load dictionary", "error", err)
			os.Exit(1)
		}
		logger.Info("dictionary loaded", "path", cfg.Dictionary, "words", words)
	}

	mux := http.NewServeMux()
	api.New(filter, logger).SetupRoutes(mux)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server is listening", "addr", server.Addr, "bits", filter.Size(), "strategy", cfg.Strategy)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("error starting server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
		return
	}
	logger.Info("server gracefully stopped")
}
