package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"productReco/domain"
)

// CatalogRepository reads the offline artifacts from Postgres.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// ProductStats keeps insertion order so fallback ties resolve the same way
// as the file source.
func (r *CatalogRepository) ProductStats(ctx context.Context) ([]domain.ProductStatsRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ProductStatsRecord
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query product_stats: %w", err)
	}

	return rows, nil
}

func (r *CatalogRepository) UserMappings(ctx context.Context) ([]domain.UserMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.UserMapping
	if err := r.DB.WithContext(ctx).
		Order("user_number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query user_mappings: %w", err)
	}

	return rows, nil
}

func (r *CatalogRepository) RecommendationIndex(ctx context.Context) ([]domain.RecommendationIndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.RecommendationIndexEntry
	if err := r.DB.WithContext(ctx).
		Order("user_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query recommendation_index: %w", err)
	}

	return rows, nil
}

func (r *CatalogRepository) Interactions(ctx context.Context) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Interaction
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query user_item_interactions: %w", err)
	}

	return rows, nil
}
