package catalog

import (
	"errors"
	"fmt"
	"slices"

	"productReco/business/ranking"
	"productReco/domain"
	"productReco/pkg/logger"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrDuplicateUser    = errors.New("duplicate user mapping")
)

// Catalog is the read-only snapshot every request works against.
// Nothing mutates it after New returns.
type Catalog struct {
	products   []domain.ProductStats
	productPos map[string]int

	idByNumber map[int]string
	numberByID map[string]int
	numbers    []int

	index map[string][]domain.ScoredProduct

	interactions []domain.Interaction
	interacted   map[string]map[string]struct{}

	inconsistent int
}

// Sizes summarizes a catalog for health checks and startup logs.
type Sizes struct {
	Products     int `json:"products"`
	Users        int `json:"users"`
	IndexedUsers int `json:"indexed_users"`
	Interactions int `json:"interactions"`
	// Products whose stored adjusted rating exceeds their average rating.
	InconsistentAdjusted int `json:"inconsistent_adjusted,omitempty"`
}

func New(
	records []domain.ProductStatsRecord,
	mappings []domain.UserMapping,
	index []domain.RecommendationIndexEntry,
	interactions []domain.Interaction,
) (*Catalog, error) {
	c := &Catalog{
		products:     make([]domain.ProductStats, 0, len(records)),
		productPos:   make(map[string]int, len(records)),
		idByNumber:   make(map[int]string, len(mappings)),
		numberByID:   make(map[string]int, len(mappings)),
		numbers:      make([]int, 0, len(mappings)),
		index:        make(map[string][]domain.ScoredProduct, len(index)),
		interactions: slices.Clone(interactions),
		interacted:   make(map[string]map[string]struct{}),
	}

	for _, r := range records {
		if _, ok := c.productPos[r.ProductID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, r.ProductID)
		}

		adjusted := ranking.Adjust(r.AverageRating, r.RatingCount)
		if r.AdjustedAverageRating != nil {
			adjusted = *r.AdjustedAverageRating
			// the penalty is always positive, so adjusted can never exceed average
			if adjusted > r.AverageRating {
				c.inconsistent++
				logger.Warn("adjusted rating above average rating",
					"product_id", r.ProductID,
					"average_rating", r.AverageRating,
					"adjusted_average_rating", adjusted,
				)
			}
		}

		c.productPos[r.ProductID] = len(c.products)
		c.products = append(c.products, domain.ProductStats{
			ProductID:             r.ProductID,
			AverageRating:         r.AverageRating,
			RatingCount:           r.RatingCount,
			AdjustedAverageRating: adjusted,
		})
	}

	for _, m := range mappings {
		if _, ok := c.idByNumber[m.UserNumber]; ok {
			return nil, fmt.Errorf("%w: user number %d", ErrDuplicateUser, m.UserNumber)
		}
		if _, ok := c.numberByID[m.UserID]; ok {
			return nil, fmt.Errorf("%w: user id %s", ErrDuplicateUser, m.UserID)
		}
		c.idByNumber[m.UserNumber] = m.UserID
		c.numberByID[m.UserID] = m.UserNumber
		c.numbers = append(c.numbers, m.UserNumber)
	}
	slices.Sort(c.numbers)

	for _, e := range index {
		c.index[e.UserID] = slices.Clone([]domain.ScoredProduct(e.Items))
	}

	for _, it := range interactions {
		set, ok := c.interacted[it.UserID]
		if !ok {
			set = make(map[string]struct{})
			c.interacted[it.UserID] = set
		}
		set[it.ProductID] = struct{}{}
	}

	return c, nil
}

// Products returns the product table in source order.
func (c *Catalog) Products() []domain.ProductStats {
	return slices.Clone(c.products)
}

func (c *Catalog) Product(productID string) (domain.ProductStats, bool) {
	pos, ok := c.productPos[productID]
	if !ok {
		return domain.ProductStats{}, false
	}
	return c.products[pos], true
}

func (c *Catalog) UserID(userNumber int) (string, bool) {
	id, ok := c.idByNumber[userNumber]
	return id, ok
}

func (c *Catalog) UserNumber(userID string) (int, bool) {
	n, ok := c.numberByID[userID]
	return n, ok
}

// UserNumbers returns every mapped user number in ascending order.
func (c *Catalog) UserNumbers() []int {
	return slices.Clone(c.numbers)
}

// IndexEntry returns the precomputed list for userID. ok is false when the
// user has no entry at all; an entry may still be empty.
func (c *Catalog) IndexEntry(userID string) ([]domain.ScoredProduct, bool) {
	items, ok := c.index[userID]
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

func (c *Catalog) HasInteraction(userID, productID string) bool {
	_, ok := c.interacted[userID][productID]
	return ok
}

func (c *Catalog) Interactions() []domain.Interaction {
	return slices.Clone(c.interactions)
}

func (c *Catalog) Sizes() Sizes {
	return Sizes{
		Products:     len(c.products),
		Users:        len(c.numbers),
		IndexedUsers: len(c.index),
		Interactions: len(c.interactions),

		InconsistentAdjusted: c.inconsistent,
	}
}
