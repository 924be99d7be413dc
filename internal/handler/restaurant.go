package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-finder/internal/model"
	"github.com/iliyamo/restaurant-finder/internal/places"
	"github.com/iliyamo/restaurant-finder/internal/queue"
	"github.com/iliyamo/restaurant-finder/internal/repository"
)

// RestaurantHandler serves the restaurant search endpoint.  Finder
// resolves the actual lookup (Google-backed in production, possibly
// wrapped in the Redis cache), Searches records history, and Publish
// emits a search.performed event.  History recording and event
// publishing are best effort: their failures are logged and the search
// response is returned regardless.
type RestaurantHandler struct {
	Finder   places.Finder
	Searches repository.SearchStore
	Publish  func(ctx context.Context, ev queue.SearchPerformedEvent) error
}

func NewRestaurantHandler(f places.Finder, s repository.SearchStore,
	publish func(ctx context.Context, ev queue.SearchPerformedEvent) error) *RestaurantHandler {
	return &RestaurantHandler{Finder: f, Searches: s, Publish: publish}
}

// GetRestaurants: resolve ?city= or ?latitude=&longitude= to nearby
// restaurants for the authenticated user.
func (h *RestaurantHandler) GetRestaurants(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	latStr := strings.TrimSpace(c.QueryParam("latitude"))
	lngStr := strings.TrimSpace(c.QueryParam("longitude"))

	if city == "" && (latStr == "" || lngStr == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide either city or latitude and longitude"})
	}

	q := places.Query{City: city}
	if city == "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude must be numbers"})
		}
		q.Lat, q.Lng = lat, lng
	}

	userID, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	results, err := h.Finder.FindRestaurants(ctx, q)
	if err != nil {
		if errors.Is(err, places.ErrCityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		log.Printf("restaurants: lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch restaurants"})
	}

	now := time.Now().UTC()
	rec := model.SearchRecord{
		UserID:     userID,
		City:       city,
		Latitude:   latStr,
		Longitude:  lngStr,
		Results:    len(results),
		SearchedAt: now,
	}
	if err := h.Searches.Create(ctx, rec); err != nil {
		log.Printf("restaurants: record search failed: %v", err)
	}
	if h.Publish != nil {
		_ = h.Publish(ctx, queue.SearchPerformedEvent{
			UserID:     userID,
			City:       city,
			Latitude:   latStr,
			Longitude:  lngStr,
			Results:    len(results),
			SearchedAt: now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, results)
}
