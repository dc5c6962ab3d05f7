package catalog

import (
	"context"
	"fmt"

	"productReco/domain"
	"productReco/pkg/logger"
)

// Source provides the offline artifacts the catalog is built from.
// RecommendationIndex and Interactions may return empty slices when the
// artifact is not published.
type Source interface {
	ProductStats(ctx context.Context) ([]domain.ProductStatsRecord, error)
	UserMappings(ctx context.Context) ([]domain.UserMapping, error)
	RecommendationIndex(ctx context.Context) ([]domain.RecommendationIndexEntry, error)
	Interactions(ctx context.Context) ([]domain.Interaction, error)
}

// Load reads every artifact from src and builds the catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	stats, err := src.ProductStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product stats: %w", err)
	}

	mappings, err := src.UserMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user mappings: %w", err)
	}

	index, err := src.RecommendationIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation index: %w", err)
	}

	interactions, err := src.Interactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	c, err := New(stats, mappings, index, interactions)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	s := c.Sizes()
	logger.Info("catalog loaded",
		"products", s.Products,
		"users", s.Users,
		"indexed_users", s.IndexedUsers,
		"interactions", s.Interactions,
	)

	return c, nil
}
