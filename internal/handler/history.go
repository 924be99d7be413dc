package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-finder/internal/model"
	"github.com/iliyamo/restaurant-finder/internal/repository"
)

// HistoryHandler serves the authenticated user's past searches.
type HistoryHandler struct {
	Searches repository.SearchStore
}

func NewHistoryHandler(s repository.SearchStore) *HistoryHandler {
	return &HistoryHandler{Searches: s}
}

type searchPart struct {
	City       string    `json:"city,omitempty"`
	Latitude   string    `json:"latitude,omitempty"`
	Longitude  string    `json:"longitude,omitempty"`
	Results    int       `json:"results"`
	SearchedAt time.Time `json:"searched_at"`
}

// GetSearches: list the caller's searches, newest first.
func (h *HistoryHandler) GetSearches(c echo.Context) error {
	userID, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Searches.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("history: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch history"})
	}

	out := make([]searchPart, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toSearchPart(rec))
	}
	return c.JSON(http.StatusOK, out)
}

func toSearchPart(rec model.SearchRecord) searchPart {
	return searchPart{
		City:       rec.City,
		Latitude:   rec.Latitude,
		Longitude:  rec.Longitude,
		Results:    rec.Results,
		SearchedAt: rec.SearchedAt,
	}
}
