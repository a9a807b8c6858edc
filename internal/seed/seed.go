// Package seed loads an initial product catalogue from a JSON file, either
// on local disk or in S3, and inserts it when the catalogue is empty.
package seed

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// Loader reads a products file from some backing store.
type Loader interface {
	// Load reads the products file identified by source (a path or an
	// object key, depending on the implementation).
	Load(ctx context.Context, source string) ([]model.ProductRequest, error)
}

// Seeder populates an empty catalogue from a Loader.
type Seeder struct {
	loader   Loader
	products service.ProductService
	repo     repository.ProductRepository
	logger   zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(
	loader Loader,
	products service.ProductService,
	repo repository.ProductRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		loader:   loader,
		products: products,
		repo:     repo,
		logger:   logger.With().Str("component", "seeder").Logger(),
	}
}

// Run seeds the catalogue from source. A non-empty catalogue is left
// untouched. Individual invalid entries are skipped, not fatal.
func (s *Seeder) Run(ctx context.Context, source string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		s.logger.Info().Int("products", count).Msg("catalogue not empty, skipping seed")
		return nil
	}

	entries, err := s.loader.Load(ctx, source)
	if err != nil {
		return err
	}

	inserted := 0
	for i := range entries {
		if _, err := s.products.Create(ctx, &entries[i]); err != nil {
			s.logger.Warn().
				Err(err).
				Str("name", entries[i].Name).
				Msg("skipping seed entry")
			continue
		}
		inserted++
	}

	s.logger.Info().
		Int("inserted", inserted).
		Int("total", len(entries)).
		Str("source", source).
		Msg("catalogue seeded")

	return nil
}
