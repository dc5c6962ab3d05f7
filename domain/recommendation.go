package domain

import "gorm.io/datatypes"

// ScoredProduct is one precomputed (product, adjusted score) pair.
type ScoredProduct struct {
	ProductID     string  `json:"product_id"`
	AdjustedScore float64 `json:"adjusted_score"`
}

// RecommendationIndexEntry holds the offline ranked list for one user.
// Items are already sorted and adjusted; serving never reorders them.
type RecommendationIndexEntry struct {
	UserID string                            `gorm:"column:user_id;primaryKey" json:"user_id"`
	Items  datatypes.JSONSlice[ScoredProduct] `gorm:"column:items;type:jsonb" json:"items"`
}

func (RecommendationIndexEntry) TableName() string {
	return "recommendation_index"
}

// Interaction is one observed rating in the user-item matrix.
type Interaction struct {
	UserID    string  `gorm:"column:user_id;primaryKey" json:"user_id"`
	ProductID string  `gorm:"column:product_id;primaryKey" json:"product_id"`
	Rating    float64 `gorm:"column:rating;type:numeric" json:"rating"`
}

func (Interaction) TableName() string {
	return "user_item_interactions"
}

// Recommendation is the row served to clients, personalized or popular.
type Recommendation struct {
	ProductID     string   `json:"product_id"`
	AdjustedScore float64  `json:"adjusted_score"`
	RatingCount   int      `json:"rating_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}
