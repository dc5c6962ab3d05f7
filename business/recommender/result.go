package recommender

import (
	"context"

	"productReco/domain"
)

// Outcome tags what a personalizer produced.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalidUser
	OutcomeNoData
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalidUser:
		return "invalid_user"
	case OutcomeNoData:
		return "no_data"
	}
	return "unknown"
}

// Result is a tagged personalizer result. Items is non-empty only when
// Outcome is OutcomeOK.
type Result struct {
	Outcome Outcome
	UserID  string
	Items   []domain.Recommendation
}

// Personalizer builds the personalized list for one mapped user.
type Personalizer interface {
	Recommend(ctx context.Context, userNumber int, topN int) Result
}
