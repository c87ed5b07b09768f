// Package spell loads a word list into a membership set and reports the
// tokens of a text that the set has never seen.
package spell

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode"

	"github.com/sourcegraph/conc"
)

// Set is the membership structure words are loaded into. *bloom.Filter
// satisfies it.
type Set interface {
	Add(member []byte)
	Check(member []byte) bool
}

// Loader feeds a dictionary into a Set, one member per line.
type Loader struct {
	// Workers is the number of goroutines calling Add. Values below 1 mean 1.
	Workers int
	Logger  *slog.Logger
}

// Load adds every line of r to set after trimming trailing whitespace, and
// returns the number of lines added. It stops early when ctx is done.
func (l *Loader) Load(ctx context.Context, r io.Reader, set Set) (int, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := max(l.Workers, 1)

	// A worker that panics cancels feeding so Wait can re-raise the panic.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte, workers*64)
	var wg conc.WaitGroup
	for range workers {
		wg.Go(func() {
			defer cancel()
			for line := range lines {
				set.Add(line)
			}
		})
	}

	count, err := feed(ctx, r, lines)
	close(lines)
	wg.Wait()
	if err != nil {
		return count, err
	}

	logger.Debug("dictionary loaded", "words", count, "workers", workers)
	return count, nil
}

// LoadFile opens path and loads it with Load.
func (l *Loader) LoadFile(ctx context.Context, path string, set Set) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("spell: opening dictionary: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f, set)
}

func feed(ctx context.Context, r io.Reader, lines chan<- []byte) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		// Scanner reuses its buffer, so each line is copied before it is shared.
		line := bytes.Clone(bytes.TrimRightFunc(scanner.Bytes(), unicode.IsSpace))
		select {
		case lines <- line:
			count++
		case <-ctx.Done():
			return count, ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("spell: reading dictionary: %w", err)
	}
	return count, nil
}

// Misspelled splits r into whitespace-delimited tokens and returns, in
// order and with repeats, those that set does not contain.
func Misspelled(r io.Reader, set Set) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	misspelled := []string{}
	for scanner.Scan() {
		if !set.Check(scanner.Bytes()) {
			misspelled = append(misspelled, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return misspelled, fmt.Errorf("spell: reading text: %w", err)
	}
	return misspelled, nil
}
