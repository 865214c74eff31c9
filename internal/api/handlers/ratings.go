package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/youssefm/tadawul-rs/internal/results"
	"github.com/youssefm/tadawul-rs/pkg/logger"
)

const (
	defaultListLimit = 15
	maxListLimit     = 200
)

// RatingReader is the read-side of the ratings store the API serves from
type RatingReader interface {
	TopRatings(ctx context.Context, date time.Time, limit int) ([]results.Rating, error)
	BottomRatings(ctx context.Context, date time.Time, limit int) ([]results.Rating, error)
	SymbolHistory(ctx context.Context, symbol string, limit int) ([]results.Rating, error)
	LatestRatingDate(ctx context.Context) (time.Time, error)
	StatsForDate(ctx context.Context, date time.Time) (*results.RatingStats, error)
}

// RatingsHandler handles rating-related API endpoints
type RatingsHandler struct {
	reader RatingReader
	logger *logger.Logger
}

// NewRatingsHandler creates a new ratings handler
func NewRatingsHandler(reader RatingReader, log *logger.Logger) *RatingsHandler {
	return &RatingsHandler{
		reader: reader,
		logger: log,
	}
}

// GetTop returns the highest-rated symbols for a date
// GET /api/ratings/top?date=2026-01-15&limit=15
func (h *RatingsHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := h.resolveDate(w, r)
	if !ok {
		return
	}
	limit := parseLimit(r)

	ratings, err := h.reader.TopRatings(ctx, date, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query top ratings")
		respondError(w, http.StatusInternalServerError, "Failed to query top ratings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"date":    date.Format("2006-01-02"),
			"count":   len(ratings),
			"ratings": ratings,
		},
	})
}

// GetBottom returns the lowest-rated symbols for a date
// GET /api/ratings/bottom?date=2026-01-15&limit=15
func (h *RatingsHandler) GetBottom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := h.resolveDate(w, r)
	if !ok {
		return
	}
	limit := parseLimit(r)

	ratings, err := h.reader.BottomRatings(ctx, date, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query bottom ratings")
		respondError(w, http.StatusInternalServerError, "Failed to query bottom ratings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"date":    date.Format("2006-01-02"),
			"count":   len(ratings),
			"ratings": ratings,
		},
	})
}

// GetHistory returns the recent rating history of one symbol
// GET /api/ratings/{symbol}/history?limit=30
func (h *RatingsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	limit := parseLimit(r)

	ratings, err := h.reader.SymbolHistory(ctx, symbol, limit)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to query symbol history")
		respondError(w, http.StatusInternalServerError, "Failed to query symbol history")
		return
	}

	if len(ratings) == 0 {
		respondError(w, http.StatusNotFound, "No ratings found for symbol "+symbol)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"symbol":  symbol,
			"count":   len(ratings),
			"ratings": ratings,
		},
	})
}

// GetStats returns summary statistics for one date's cohort
// GET /api/ratings/stats?date=2026-01-15
func (h *RatingsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := h.resolveDate(w, r)
	if !ok {
		return
	}

	stats, err := h.reader.StatsForDate(ctx, date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query rating stats")
		respondError(w, http.StatusInternalServerError, "Failed to query rating stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// resolveDate reads the date query param, falling back to the latest
// computed date. On failure it writes the error response itself.
func (h *RatingsHandler) resolveDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
			return time.Time{}, false
		}
		return date, true
	}

	date, err := h.reader.LatestRatingDate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve latest rating date")
		respondError(w, http.StatusInternalServerError, "Failed to resolve latest rating date")
		return time.Time{}, false
	}
	return date, true
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
