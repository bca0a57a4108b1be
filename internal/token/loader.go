package token

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped batch files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based token batch loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "token-loader").Logger(),
	}
}

// Load reads a gzipped batch file and returns its codes.
func (l *fileLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	l.logger.Info().Str("file", path).Msg("loading token batch")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open token batch")
		return nil, fmt.Errorf("failed to open token batch %s: %w", path, err)
	}
	defer file.Close()

	set, err := readBatch(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read token batch")
		return nil, fmt.Errorf("failed to read token batch %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", set.Size()).
		Msg("token batch loaded")

	return set, nil
}

// readBatch decompresses r and collects one normalised code per
// non-empty line.
func readBatch(ctx context.Context, r io.Reader) (CodeSet, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	set := newOrderedCodeSet(1024)
	scanner := bufio.NewScanner(gzipReader)

	lineCount := 0
	for scanner.Scan() {
		if lineCount%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		lineCount++

		if code := Normalize(scanner.Text()); code != "" {
			set.Add(code)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return set, nil
}
