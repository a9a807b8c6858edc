package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading a products JSON file from the
// local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based products loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a JSON file containing an array of products.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.ProductRequest, error) {
	l.logger.Info().Str("file", path).Msg("loading products file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open products file")
		return nil, fmt.Errorf("failed to open products file %s: %w", path, err)
	}
	defer file.Close()

	var entries []model.ProductRequest
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode products file")
		return nil, fmt.Errorf("failed to decode products file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("count", len(entries)).
		Msg("products file loaded")

	return entries, nil
}
