package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"productReco/domain"
)

const (
	ProductStatsFile        = "product_stats.json"
	UserMappingFile         = "user_mapping.json"
	RecommendationIndexFile = "recommendation_index.json"
	InteractionsFile        = "interactions.json"
)

// CatalogSource reads the offline artifacts from a directory of JSON files.
//
//	product_stats.json         [{"product_id", "average_rating", "rating_count", "adjusted_average_rating"?}]
//	user_mapping.json          {"<user_number>": "<user_id>"}
//	recommendation_index.json  {"<user_id>": [{"product_id", "adjusted_score"}]}   optional
//	interactions.json          [{"user_id", "product_id", "rating"}]                optional
type CatalogSource struct {
	Dir string
}

func NewCatalogSource(dir string) *CatalogSource {
	return &CatalogSource{Dir: dir}
}

func (s *CatalogSource) ProductStats(ctx context.Context) ([]domain.ProductStatsRecord, error) {
	var rows []domain.ProductStatsRecord
	if err := s.decode(ctx, ProductStatsFile, true, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CatalogSource) UserMappings(ctx context.Context) ([]domain.UserMapping, error) {
	var raw map[int]string
	if err := s.decode(ctx, UserMappingFile, true, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.UserMapping, 0, len(raw))
	for n, id := range raw {
		out = append(out, domain.UserMapping{UserNumber: n, UserID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserNumber < out[j].UserNumber })

	return out, nil
}

func (s *CatalogSource) RecommendationIndex(ctx context.Context) ([]domain.RecommendationIndexEntry, error) {
	var raw map[string][]domain.ScoredProduct
	if err := s.decode(ctx, RecommendationIndexFile, false, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.RecommendationIndexEntry, 0, len(raw))
	for id, items := range raw {
		out = append(out, domain.RecommendationIndexEntry{UserID: id, Items: items})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (s *CatalogSource) Interactions(ctx context.Context) ([]domain.Interaction, error) {
	var rows []domain.Interaction
	if err := s.decode(ctx, InteractionsFile, false, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decode reads name into v. Optional files that do not exist leave v untouched.
func (s *CatalogSource) decode(ctx context.Context, name string, required bool, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}
