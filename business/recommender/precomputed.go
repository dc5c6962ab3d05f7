package recommender

import (
	"context"

	"productReco/business/catalog"
	"productReco/domain"
)

// PrecomputedPersonalizer serves the offline recommendation index as-is.
type PrecomputedPersonalizer struct {
	catalog *catalog.Catalog
}

func NewPrecomputedPersonalizer(c *catalog.Catalog) *PrecomputedPersonalizer {
	return &PrecomputedPersonalizer{catalog: c}
}

// Recommend ignores topN: the stored list keeps its own order and length.
func (p *PrecomputedPersonalizer) Recommend(_ context.Context, userNumber int, _ int) Result {
	userID, ok := p.catalog.UserID(userNumber)
	if !ok {
		return Result{Outcome: OutcomeInvalidUser}
	}

	entry, ok := p.catalog.IndexEntry(userID)
	if !ok || len(entry) == 0 {
		return Result{Outcome: OutcomeNoData, UserID: userID}
	}

	recs := make([]domain.Recommendation, 0, len(entry))
	for _, e := range entry {
		rec := domain.Recommendation{
			ProductID:     e.ProductID,
			AdjustedScore: e.AdjustedScore,
		}
		if stats, ok := p.catalog.Product(e.ProductID); ok {
			avg := stats.AverageRating
			rec.RatingCount = stats.RatingCount
			rec.AverageRating = &avg
		}
		recs = append(recs, rec)
	}

	return Result{Outcome: OutcomeOK, UserID: userID, Items: recs}
}
