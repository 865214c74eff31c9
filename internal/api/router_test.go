package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/youssefm/tadawul-rs/internal/api/handlers"
	"github.com/youssefm/tadawul-rs/internal/results"
	"github.com/youssefm/tadawul-rs/pkg/config"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

type stubReader struct{}

func (stubReader) TopRatings(ctx context.Context, date time.Time, limit int) ([]results.Rating, error) {
	return []results.Rating{{Symbol: "1010", Date: date}}, nil
}

func (stubReader) BottomRatings(ctx context.Context, date time.Time, limit int) ([]results.Rating, error) {
	return nil, nil
}

func (stubReader) SymbolHistory(ctx context.Context, symbol string, limit int) ([]results.Rating, error) {
	return nil, nil
}

func (stubReader) LatestRatingDate(ctx context.Context) (time.Time, error) {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), nil
}

func (stubReader) StatsForDate(ctx context.Context, date time.Time) (*results.RatingStats, error) {
	return &results.RatingStats{Date: date}, nil
}

func testRouter(rateLimit float64, burst int) http.Handler {
	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		Server: config.ServerConfig{
			Port:      "8090",
			RateLimit: rateLimit,
			RateBurst: burst,
		},
	}
	log := logger.New(cfg)
	h := handlers.NewRatingsHandler(stubReader{}, log)
	return NewRouter(h, cfg, log)
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(100, 100)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestTopRouteRegistered(t *testing.T) {
	router := testRouter(100, 100)

	req := httptest.NewRequest("GET", "/api/ratings/top?date=2026-01-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := testRouter(100, 100)

	req := httptest.NewRequest("POST", "/api/ratings/top", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	// One token per minute, burst 2: third request must be rejected
	router := testRouter(1.0/60, 2)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest("GET", "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 on third request, got %d", codes[2])
	}
}
