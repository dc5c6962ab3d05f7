package recommender

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"productReco/business/catalog"
	"productReco/business/estimator"
	"productReco/business/ranking"
	"productReco/domain"
	"productReco/pkg/logger"
	"productReco/pkg/metrics"
)

const (
	DefaultThreshold       = 4.0
	DefaultMaxConcurrency  = 8
	DefaultEstimateTimeout = 5 * time.Second
)

// OnDemandConfig zero values fall back to the defaults above; a threshold
// <= 0 means DefaultThreshold.
type OnDemandConfig struct {
	Threshold      float64
	MaxConcurrency int
	Timeout        time.Duration
}

// OnDemandPersonalizer scores every eligible product for the user at request
// time and keeps those whose adjusted estimate reaches the threshold.
type OnDemandPersonalizer struct {
	catalog     *catalog.Catalog
	estimator   estimator.RatingEstimator
	eligibility EligibilityChecker
	cfg         OnDemandConfig
}

func NewOnDemandPersonalizer(
	c *catalog.Catalog,
	est estimator.RatingEstimator,
	elig EligibilityChecker,
	cfg OnDemandConfig,
) *OnDemandPersonalizer {
	if elig == nil {
		elig = UnseenChecker{Catalog: c}
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEstimateTimeout
	}
	return &OnDemandPersonalizer{
		catalog:     c,
		estimator:   est,
		eligibility: elig,
		cfg:         cfg,
	}
}

type scoredCandidate struct {
	stats    domain.ProductStats
	adjusted float64
}

func (p *OnDemandPersonalizer) Recommend(ctx context.Context, userNumber int, topN int) Result {
	userID, ok := p.catalog.UserID(userNumber)
	if !ok {
		return Result{Outcome: OutcomeInvalidUser}
	}
	if topN <= 0 {
		topN = ranking.DefaultTopN
	}

	candidates := p.candidates(ctx, userID)
	if len(candidates) == 0 {
		return Result{Outcome: OutcomeNoData, UserID: userID}
	}

	raw, found := p.estimateAll(ctx, userID, candidates)

	kept := make([]scoredCandidate, 0, len(candidates))
	for i, cand := range candidates {
		if !found[i] {
			continue
		}
		adjusted := ranking.Adjust(raw[i], cand.RatingCount)
		if adjusted >= p.cfg.Threshold {
			kept = append(kept, scoredCandidate{stats: cand, adjusted: adjusted})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].adjusted != kept[j].adjusted {
			return kept[i].adjusted > kept[j].adjusted
		}
		return kept[i].stats.RatingCount > kept[j].stats.RatingCount
	})
	if len(kept) > topN {
		kept = kept[:topN]
	}

	if len(kept) == 0 {
		return Result{Outcome: OutcomeNoData, UserID: userID}
	}

	recs := make([]domain.Recommendation, 0, len(kept))
	for _, k := range kept {
		avg := k.stats.AverageRating
		recs = append(recs, domain.Recommendation{
			ProductID:     k.stats.ProductID,
			AdjustedScore: k.adjusted,
			RatingCount:   k.stats.RatingCount,
			AverageRating: &avg,
		})
	}

	return Result{Outcome: OutcomeOK, UserID: userID, Items: recs}
}

// candidates returns the eligible products in table order.
func (p *OnDemandPersonalizer) candidates(ctx context.Context, userID string) []domain.ProductStats {
	products := p.catalog.Products()
	out := products[:0]
	for _, prod := range products {
		if p.eligibility.IsEligible(ctx, userID, prod.ProductID) {
			out = append(out, prod)
		}
	}
	return out
}

// estimateAll runs one estimate per candidate with bounded parallelism.
// Results stay index-aligned with candidates; ok[i] is false for failures.
func (p *OnDemandPersonalizer) estimateAll(
	ctx context.Context,
	userID string,
	candidates []domain.ProductStats,
) ([]float64, []bool) {
	raw := make([]float64, len(candidates))
	ok := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(p.cfg.MaxConcurrency)

	for i, cand := range candidates {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
			defer cancel()

			start := time.Now()
			est, err := p.estimator.Estimate(callCtx, userID, cand.ProductID)
			metrics.EstimateDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.EstimateFailures.WithLabelValues(failureCause(err)).Inc()
				logger.Debug("estimate skipped",
					"trace_id", TraceIDFromContext(ctx),
					"user_id", userID,
					"product_id", cand.ProductID,
					"error", err,
				)
				return nil
			}

			raw[i] = est
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	return raw, ok
}

func failureCause(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, estimator.ErrNoEstimate):
		return "no_estimate"
	}
	return "error"
}
