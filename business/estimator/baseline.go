package estimator

import (
	"context"
	"fmt"
	"math"

	"productReco/domain"
)

const (
	DefaultUserReg = 15.0
	DefaultItemReg = 10.0
)

// Baseline estimates r(u,i) = mu + b_u + b_i with regularized biases,
// clipped to the observed rating range. Unknown users or items contribute
// a zero bias.
type Baseline struct {
	mu       float64
	userBias map[string]float64
	itemBias map[string]float64
	min, max float64
	trained  bool
}

// TrainBaseline fits the biases in one pass over items, then one over users.
// Non-positive regularization values fall back to the defaults.
func TrainBaseline(interactions []domain.Interaction, userReg, itemReg float64) *Baseline {
	if userReg <= 0 {
		userReg = DefaultUserReg
	}
	if itemReg <= 0 {
		itemReg = DefaultItemReg
	}

	b := &Baseline{
		userBias: make(map[string]float64),
		itemBias: make(map[string]float64),
		min:      math.Inf(1),
		max:      math.Inf(-1),
	}
	if len(interactions) == 0 {
		return b
	}

	var sum float64
	for _, it := range interactions {
		sum += it.Rating
		b.min = math.Min(b.min, it.Rating)
		b.max = math.Max(b.max, it.Rating)
	}
	b.mu = sum / float64(len(interactions))

	itemSum := make(map[string]float64)
	itemCnt := make(map[string]int)
	for _, it := range interactions {
		itemSum[it.ProductID] += it.Rating - b.mu
		itemCnt[it.ProductID]++
	}
	for id, s := range itemSum {
		b.itemBias[id] = s / (float64(itemCnt[id]) + itemReg)
	}

	userSum := make(map[string]float64)
	userCnt := make(map[string]int)
	for _, it := range interactions {
		userSum[it.UserID] += it.Rating - b.mu - b.itemBias[it.ProductID]
		userCnt[it.UserID]++
	}
	for id, s := range userSum {
		b.userBias[id] = s / (float64(userCnt[id]) + userReg)
	}

	b.trained = true
	return b
}

func (b *Baseline) Estimate(ctx context.Context, userID, productID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if !b.trained {
		return 0, fmt.Errorf("%w: baseline has no training data", ErrNoEstimate)
	}

	est := b.mu + b.userBias[userID] + b.itemBias[productID]
	return math.Max(b.min, math.Min(b.max, est)), nil
}
