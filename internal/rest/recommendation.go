package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"productReco/business/recommender"
	"productReco/pkg/metrics"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
	}

	RecommendationService interface {
		Recommend(ctx context.Context, req recommender.Request) recommender.Response
		ByUserID(ctx context.Context, userID string, topN int) recommender.Response
		Guest(topN int) recommender.Response
		Popular(topN int, reason recommender.Reason, message string) recommender.Response
		DemoUsers() []int
	}

	// UserNumber stays a string so malformed input can still be answered
	// with the popular list.
	RecommendQuery struct {
		UserNumber string `query:"user_number"`
		N          int    `query:"n" validate:"omitempty,min=1,max=100"`
	}

	// UserID is checked separately so a bad id still gets the popular list.
	ByUserIDQuery struct {
		UserID string `query:"user_id"`
		N      int    `query:"n" validate:"omitempty,min=1,max=100"`
	}

	PopularQuery struct {
		N int `query:"n" validate:"omitempty,min=1,max=100"`
	}

	DemoUsersResponse struct {
		UserNumbers []int `json:"user_numbers"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/recommendations?user_number=3&n=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	defer observeLatency("recommend", time.Now())

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userNumber, err := strconv.Atoi(q.UserNumber)
	if err != nil {
		resp := h.service.Popular(q.N, recommender.ReasonInvalidUser, "user_number must be an integer")
		return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
	}

	resp := h.service.Recommend(c.Request().Context(), recommender.Request{
		UserNumber: userNumber,
		TopN:       q.N,
	})

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

// GET /api/v1/recommendations/by-user-id?user_id=A3SGXH7AUHU8GW
func (h *RecommendationHandler) ByUserID(c echo.Context) error {
	defer observeLatency("by_user_id", time.Now())

	var q ByUserIDQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Var(q.UserID, "required,max=128"); err != nil {
		resp := h.service.Popular(q.N, recommender.ReasonInvalidUser, "invalid user_id: "+err.Error())
		return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
	}

	resp := h.service.ByUserID(c.Request().Context(), q.UserID, q.N)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

// GET /api/v1/recommendations/popular?n=10
func (h *RecommendationHandler) Popular(c echo.Context) error {
	defer observeLatency("popular", time.Now())

	var q PopularQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.Guest(q.N)))
}

// GET /api/v1/recommendations/demo-users
func (h *RecommendationHandler) DemoUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(DemoUsersResponse{
		UserNumbers: h.service.DemoUsers(),
	}))
}

func observeLatency(endpoint string, start time.Time) {
	metrics.RecommendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
