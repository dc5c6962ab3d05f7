package recommender

import (
	"context"
	"fmt"

	"productReco/business/catalog"
	"productReco/business/ranking"
	"productReco/domain"
	"productReco/pkg/logger"
	"productReco/pkg/metrics"
)

type Source string

const (
	SourcePersonalized Source = "personalized"
	SourcePopular      Source = "popular"
)

// Reason says why a popular list was served instead of a personalized one.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidUser       Reason = "invalid_user"
	ReasonNoRecommendations Reason = "no_recommendations"
	ReasonGuest             Reason = "guest"
)

type Request struct {
	UserNumber int
	TopN       int
}

type Response struct {
	Source     Source                  `json:"source"`
	Reason     Reason                  `json:"reason,omitempty"`
	Message    string                  `json:"message,omitempty"`
	UserNumber *int                    `json:"user_number,omitempty"`
	UserID     string                  `json:"user_id,omitempty"`
	Items      []domain.Recommendation `json:"items"`
}

type ServiceConfig struct {
	TopN               int
	FallbackMinRatings int
	DemoUserCount      int
	// Only offer demo users that have a non-empty precomputed list.
	DemoUsersIndexedOnly bool
}

// Service applies the fallback policy on top of a Personalizer: anything that
// is not a non-empty personalized list is answered with popular products.
type Service struct {
	catalog      *catalog.Catalog
	personalizer Personalizer
	cfg          ServiceConfig
}

func NewService(c *catalog.Catalog, p Personalizer, cfg ServiceConfig) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = ranking.DefaultTopN
	}
	if cfg.DemoUserCount <= 0 {
		cfg.DemoUserCount = 10
	}
	return &Service{
		catalog:      c,
		personalizer: p,
		cfg:          cfg,
	}
}

func (s *Service) Recommend(ctx context.Context, req Request) Response {
	topN := s.topN(req.TopN)
	userNumber := req.UserNumber

	res := s.personalizer.Recommend(ctx, userNumber, topN)

	switch {
	case res.Outcome == OutcomeInvalidUser:
		logger.Info("unknown user number, serving popular products",
			"trace_id", TraceIDFromContext(ctx),
			"user_number", userNumber,
		)
		resp := s.Popular(topN, ReasonInvalidUser, fmt.Sprintf("user number %d not found", userNumber))
		resp.UserNumber = &userNumber
		return resp

	case res.Outcome == OutcomeNoData || len(res.Items) == 0:
		logger.Info("no personalized recommendations, serving popular products",
			"trace_id", TraceIDFromContext(ctx),
			"user_number", userNumber,
			"user_id", res.UserID,
		)
		resp := s.Popular(topN, ReasonNoRecommendations, "no personalized recommendations available for this user")
		resp.UserNumber = &userNumber
		resp.UserID = res.UserID
		return resp
	}

	observe(SourcePersonalized, ReasonNone)
	return Response{
		Source:     SourcePersonalized,
		UserNumber: &userNumber,
		UserID:     res.UserID,
		Items:      res.Items,
	}
}

// ByUserID resolves an external user id to its number before recommending.
func (s *Service) ByUserID(ctx context.Context, userID string, topN int) Response {
	n, ok := s.catalog.UserNumber(userID)
	if !ok {
		logger.Info("unknown user id, serving popular products",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
		)
		resp := s.Popular(s.topN(topN), ReasonInvalidUser, fmt.Sprintf("user id %q not found", userID))
		resp.UserID = userID
		return resp
	}

	return s.Recommend(ctx, Request{UserNumber: n, TopN: topN})
}

func (s *Service) Guest(topN int) Response {
	return s.Popular(s.topN(topN), ReasonGuest, "")
}

// Popular returns the ranked fallback list labelled with reason.
func (s *Service) Popular(topN int, reason Reason, message string) Response {
	rows := ranking.RankedFallback(s.catalog.Products(), s.topN(topN), s.cfg.FallbackMinRatings)

	observe(SourcePopular, reason)
	return Response{
		Source:  SourcePopular,
		Reason:  reason,
		Message: message,
		Items:   ranking.ToRecommendations(rows),
	}
}

// DemoUsers lists the first DemoUserCount user numbers in ascending order.
func (s *Service) DemoUsers() []int {
	out := make([]int, 0, s.cfg.DemoUserCount)
	for _, n := range s.catalog.UserNumbers() {
		if len(out) == s.cfg.DemoUserCount {
			break
		}
		if s.cfg.DemoUsersIndexedOnly {
			id, _ := s.catalog.UserID(n)
			if items, ok := s.catalog.IndexEntry(id); !ok || len(items) == 0 {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func (s *Service) topN(n int) int {
	if n <= 0 {
		return s.cfg.TopN
	}
	return n
}

func observe(source Source, reason Reason) {
	label := string(reason)
	if label == "" {
		label = "none"
	}
	metrics.RecommendResponses.WithLabelValues(string(source), label).Inc()
}
