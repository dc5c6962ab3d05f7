package recommender

import (
	"context"

	"productReco/business/catalog"
)

// EligibilityChecker decides if a product may be scored for a user.
type EligibilityChecker interface {
	IsEligible(ctx context.Context, userID, productID string) bool
}

// UnseenChecker allows only products the user has no recorded interaction with.
type UnseenChecker struct {
	Catalog *catalog.Catalog
}

func (c UnseenChecker) IsEligible(_ context.Context, userID, productID string) bool {
	return !c.Catalog.HasInteraction(userID, productID)
}

// NoopEligibilityChecker allows everything.
type NoopEligibilityChecker struct{}

func (NoopEligibilityChecker) IsEligible(context.Context, string, string) bool {
	return true
}
