package estimator

import (
	"context"
	"errors"
)

var ErrNoEstimate = errors.New("no rating estimate")

// RatingEstimator predicts the rating userID would give productID.
// Implementations return an error (usually wrapping ErrNoEstimate) when no
// usable estimate exists; callers skip that product.
type RatingEstimator interface {
	Estimate(ctx context.Context, userID, productID string) (float64, error)
}

// Func adapts a plain function to RatingEstimator.
type Func func(ctx context.Context, userID, productID string) (float64, error)

func (f Func) Estimate(ctx context.Context, userID, productID string) (float64, error) {
	return f(ctx, userID, productID)
}
