package domain

// CREATE TABLE public.product_stats (
//     id                      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id              TEXT UNIQUE NOT NULL,
//     average_rating          NUMERIC NOT NULL,
//     rating_count            INTEGER NOT NULL DEFAULT 0,
//     adjusted_average_rating NUMERIC
// );

// ProductStatsRecord is a product_stats row as stored. AdjustedAverageRating
// may be absent, in which case the catalog derives it.
type ProductStatsRecord struct {
	ID                    uint64   `gorm:"primaryKey" json:"-"`
	ProductID             string   `gorm:"column:product_id;uniqueIndex;not null" json:"product_id"`
	AverageRating         float64  `gorm:"column:average_rating;type:numeric" json:"average_rating"`
	RatingCount           int      `gorm:"column:rating_count;default:0" json:"rating_count"`
	AdjustedAverageRating *float64 `gorm:"column:adjusted_average_rating;type:numeric" json:"adjusted_average_rating,omitempty"`
}

func (ProductStatsRecord) TableName() string {
	return "product_stats"
}

// ProductStats is the global rating summary of one product.
// AdjustedAverageRating is AverageRating minus the sample-size penalty.
type ProductStats struct {
	ProductID             string  `json:"product_id"`
	AverageRating         float64 `json:"average_rating"`
	RatingCount           int     `json:"rating_count"`
	AdjustedAverageRating float64 `json:"adjusted_average_rating"`
}
