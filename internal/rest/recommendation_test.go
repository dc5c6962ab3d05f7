//go:build !integration

package rest

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"productReco/business/catalog"
	"productReco/business/recommender"
	"productReco/domain"
)

func ptr(f float64) *float64 { return &f }

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	records := []domain.ProductStatsRecord{
		{ProductID: "PX", AverageRating: 4.3, RatingCount: 100, AdjustedAverageRating: ptr(4.2)},
		{ProductID: "P1", AverageRating: 4.5, RatingCount: 50, AdjustedAverageRating: ptr(4.4)},
		{ProductID: "P2", AverageRating: 4.8, RatingCount: 1, AdjustedAverageRating: ptr(3.8)},
	}
	mappings := []domain.UserMapping{{UserNumber: 0, UserID: "U1"}, {UserNumber: 1, UserID: "U2"}}
	index := []domain.RecommendationIndexEntry{
		{UserID: "U1", Items: []domain.ScoredProduct{{ProductID: "PX", AdjustedScore: 4.2}}},
	}

	c, err := catalog.New(records, mappings, index, nil)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	svc := recommender.NewService(c, recommender.NewPrecomputedPersonalizer(c), recommender.ServiceConfig{
		FallbackMinRatings:   2,
		DemoUsersIndexedOnly: true,
	})

	e := echo.New()
	h := NewRecommendationHandler(svc)
	e.GET("/recommendations", h.Recommend)
	e.GET("/recommendations/by-user-id", h.ByUserID)
	e.GET("/recommendations/popular", h.Popular)
	e.GET("/recommendations/demo-users", h.DemoUsers)
	e.GET("/healthz", NewHealthHandler(c, "precomputed").Health)
	return e
}

func do(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// envelopeData pulls the payload out of the response envelope: the first
// top-level object that carries field.
func envelopeData(t *testing.T, body []byte, field string, out any) {
	t.Helper()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		t.Fatalf("decode envelope: %v; body=%s", err, body)
	}
	for _, raw := range top {
		var probe map[string]json.RawMessage
		if json.Unmarshal(raw, &probe) != nil {
			continue
		}
		if _, ok := probe[field]; ok {
			if err := json.Unmarshal(raw, out); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			return
		}
	}
	t.Fatalf("no payload with %q in %s", field, body)
}

func itemIDs(resp recommender.Response) []string {
	out := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, it.ProductID)
	}
	return out
}

func TestRecommendationHandler_Recommend(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantSource recommender.Source
		wantReason recommender.Reason
		wantIDs    []string
		wantMsg    bool
	}{
		{
			name:       "personalized",
			target:     "/recommendations?user_number=0",
			wantSource: recommender.SourcePersonalized,
			wantIDs:    []string{"PX"},
		},
		{
			name:       "mapped user without entry",
			target:     "/recommendations?user_number=1",
			wantSource: recommender.SourcePopular,
			wantReason: recommender.ReasonNoRecommendations,
			wantIDs:    []string{"P1", "PX"},
			wantMsg:    true,
		},
		{
			name:       "unknown user",
			target:     "/recommendations?user_number=99",
			wantSource: recommender.SourcePopular,
			wantReason: recommender.ReasonInvalidUser,
			wantIDs:    []string{"P1", "PX"},
			wantMsg:    true,
		},
		{
			name:       "malformed user number",
			target:     "/recommendations?user_number=abc&n=1",
			wantSource: recommender.SourcePopular,
			wantReason: recommender.ReasonInvalidUser,
			wantIDs:    []string{"P1"},
			wantMsg:    true,
		},
		{
			name:       "missing user number",
			target:     "/recommendations",
			wantSource: recommender.SourcePopular,
			wantReason: recommender.ReasonInvalidUser,
			wantIDs:    []string{"P1", "PX"},
			wantMsg:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
			}

			var resp recommender.Response
			envelopeData(t, rec.Body.Bytes(), "source", &resp)

			if resp.Source != tt.wantSource || resp.Reason != tt.wantReason {
				t.Errorf("source/reason = %s/%s, want %s/%s", resp.Source, resp.Reason, tt.wantSource, tt.wantReason)
			}
			if got := itemIDs(resp); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("items = %v, want %v", got, tt.wantIDs)
			}
			if tt.wantMsg && resp.Message == "" {
				t.Error("expected a message explaining the fallback")
			}
		})
	}
}

func TestRecommendationHandler_RejectsBadN(t *testing.T) {
	e := newTestServer(t)

	for _, target := range []string{
		"/recommendations?user_number=0&n=101",
		"/recommendations?user_number=0&n=ten",
		"/recommendations/popular?n=-1",
		"/recommendations/by-user-id?user_id=U1&n=500",
	} {
		if rec := do(t, e, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: code = %d, want 400", target, rec.Code)
		}
	}
}

func TestRecommendationHandler_ByUserID(t *testing.T) {
	e := newTestServer(t)

	var resp recommender.Response
	envelopeData(t, do(t, e, "/recommendations/by-user-id?user_id=U1").Body.Bytes(), "source", &resp)
	if resp.Source != recommender.SourcePersonalized || resp.UserNumber == nil || *resp.UserNumber != 0 {
		t.Errorf("known id = %+v", resp)
	}

	resp = recommender.Response{}
	envelopeData(t, do(t, e, "/recommendations/by-user-id?user_id=nobody").Body.Bytes(), "source", &resp)
	if resp.Source != recommender.SourcePopular || resp.Reason != recommender.ReasonInvalidUser {
		t.Errorf("unknown id = %+v", resp)
	}
}

func TestRecommendationHandler_ByUserIDMalformed(t *testing.T) {
	e := newTestServer(t)

	for _, target := range []string{
		"/recommendations/by-user-id",
		"/recommendations/by-user-id?user_id=",
		"/recommendations/by-user-id?user_id=" + strings.Repeat("A", 200),
	} {
		rec := do(t, e, target)
		if rec.Code != http.StatusOK {
			t.Errorf("%.60s: code = %d, want 200", target, rec.Code)
			continue
		}

		var resp recommender.Response
		envelopeData(t, rec.Body.Bytes(), "source", &resp)
		if resp.Source != recommender.SourcePopular || resp.Reason != recommender.ReasonInvalidUser || resp.Message == "" {
			t.Errorf("%.60s: response = %+v", target, resp)
		}
		if got := itemIDs(resp); !reflect.DeepEqual(got, []string{"P1", "PX"}) {
			t.Errorf("%.60s: items = %v", target, got)
		}
	}
}

func TestRecommendationHandler_PopularAndDemoUsers(t *testing.T) {
	e := newTestServer(t)

	var popular recommender.Response
	envelopeData(t, do(t, e, "/recommendations/popular?n=5").Body.Bytes(), "source", &popular)
	if popular.Reason != recommender.ReasonGuest || !reflect.DeepEqual(itemIDs(popular), []string{"P1", "PX"}) {
		t.Errorf("popular = %+v", popular)
	}

	var demo DemoUsersResponse
	envelopeData(t, do(t, e, "/recommendations/demo-users").Body.Bytes(), "user_numbers", &demo)
	if !reflect.DeepEqual(demo.UserNumbers, []int{0}) {
		t.Errorf("demo users = %v, want [0]", demo.UserNumbers)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := do(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var got HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := HealthResponse{Status: "ok", Mode: "precomputed", Catalog: catalog.Sizes{Products: 3, Users: 2, IndexedUsers: 1}}
	if got != want {
		t.Errorf("health = %+v, want %+v", got, want)
	}
}
