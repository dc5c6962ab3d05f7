package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"productReco/business/estimator"
	"productReco/pkg/logger"
	"productReco/pkg/metrics"
)

// ErrMissingRating means the predictor answered without a rating field.
var ErrMissingRating = fmt.Errorf("%w: predictor response has no rating", estimator.ErrNoEstimate)

type Config struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client calls a remote rating predictor:
//
//	POST {BaseURL}/predict  {"user_id": "...", "product_id": "..."}
//	200                     {"rating": 4.2}
//
// Consecutive transport or status failures open the breaker, after which
// calls fail fast until OpenTimeout passes.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[float64]
}

type predictRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type predictResponse struct {
	Rating *float64 `json:"rating"`
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "predictor",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a well-formed answer without a rating, or a caller giving up,
		// says nothing about predictor health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMissingRating) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.PredictorBreakerState.Set(float64(to))
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		endpoint: cfg.BaseURL + "/predict",
		http:     &http.Client{Timeout: cfg.Timeout},
		breaker:  gobreaker.NewCircuitBreaker[float64](settings),
	}
}

func (c *Client) Estimate(ctx context.Context, userID, productID string) (float64, error) {
	rating, err := c.breaker.Execute(func() (float64, error) {
		return c.predict(ctx, userID, productID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("%w: %w", estimator.ErrNoEstimate, err)
		}
		return 0, err
	}
	return rating, nil
}

func (c *Client) predict(ctx context.Context, userID, productID string) (float64, error) {
	body, err := json.Marshal(predictRequest{UserID: userID, ProductID: productID})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("predict call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("predict error: status=%d, body=%s", resp.StatusCode, string(msg))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Rating == nil {
		return 0, ErrMissingRating
	}

	return *out.Rating, nil
}
