package ranking

import (
	"sort"

	"productReco/domain"
)

const DefaultTopN = 10

// RankedFallback returns the top n products with rating_count > minRatings,
// ordered by adjusted average rating descending. Ties go to the higher
// rating_count, then to the earlier row of stats. stats is not modified.
func RankedFallback(stats []domain.ProductStats, n, minRatings int) []domain.ProductStats {
	if n <= 0 {
		n = DefaultTopN
	}

	eligible := make([]domain.ProductStats, 0, len(stats))
	for _, s := range stats {
		if s.RatingCount > minRatings {
			eligible = append(eligible, s)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].AdjustedAverageRating != eligible[j].AdjustedAverageRating {
			return eligible[i].AdjustedAverageRating > eligible[j].AdjustedAverageRating
		}
		return eligible[i].RatingCount > eligible[j].RatingCount
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// ToRecommendations renders fallback rows in the shared output shape.
func ToRecommendations(rows []domain.ProductStats) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(rows))
	for _, r := range rows {
		avg := r.AverageRating
		out = append(out, domain.Recommendation{
			ProductID:     r.ProductID,
			AdjustedScore: r.AdjustedAverageRating,
			RatingCount:   r.RatingCount,
			AverageRating: &avg,
		})
	}
	return out
}
