//go:build !integration

package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"productReco/business/estimator"
)

func TestClient_Estimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch req.ProductID {
		case "P1":
			_, _ = w.Write([]byte(`{"rating": 4.25}`))
		case "missing":
			_, _ = w.Write([]byte(`{"score": 4.25}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, FailureThreshold: 100})
	ctx := context.Background()

	got, err := c.Estimate(ctx, "U1", "P1")
	if err != nil || got != 4.25 {
		t.Errorf("Estimate(P1) = %v, %v; want 4.25", got, err)
	}

	if _, err := c.Estimate(ctx, "U1", "missing"); !errors.Is(err, ErrMissingRating) || !errors.Is(err, estimator.ErrNoEstimate) {
		t.Errorf("Estimate(missing) error = %v, want ErrMissingRating", err)
	}

	if _, err := c.Estimate(ctx, "U1", "broken"); err == nil {
		t.Error("Estimate(broken) expected status error")
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	if _, err := c.Estimate(context.Background(), "U1", "P1"); err == nil {
		t.Error("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Estimate took %v", elapsed)
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, FailureThreshold: 3, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Estimate(ctx, "U1", "P1"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := c.Estimate(ctx, "U1", "P1")
	if !errors.Is(err, estimator.ErrNoEstimate) {
		t.Errorf("open breaker error = %v, want ErrNoEstimate", err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestClient_MissingRatingDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, FailureThreshold: 2})

	for i := 0; i < 5; i++ {
		_, err := c.Estimate(context.Background(), "U1", "P1")
		if !errors.Is(err, ErrMissingRating) {
			t.Fatalf("call %d error = %v, want ErrMissingRating", i, err)
		}
	}
}
