// Package places wraps the Google Maps APIs used for restaurant lookups.
// A search is either a city name (geocoded first) or a raw coordinate
// pair; both resolve to a Places NearbySearch for restaurants within a
// fixed radius.
package places

import (
	"context"
	"errors"

	"googlemaps.github.io/maps"
)

// searchRadiusMeters bounds the NearbySearch around the resolved location.
const searchRadiusMeters = 15000

// ErrCityNotFound is returned when geocoding a city yields no results.
var ErrCityNotFound = errors.New("city not found")

// Restaurant is the trimmed place representation returned to clients.
type Restaurant struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float32 `json:"rating"`
}

// Query describes one search.  City takes precedence when set; otherwise
// Lat/Lng are used directly.
type Query struct {
	City string
	Lat  float64
	Lng  float64
}

// Finder resolves a query to a list of restaurants.  The Google-backed
// implementation below satisfies it; tests substitute fakes and the
// caching decorator wraps it.
type Finder interface {
	FindRestaurants(ctx context.Context, q Query) ([]Restaurant, error)
}

// GoogleFinder calls the Google Maps Geocoding and Places APIs.
type GoogleFinder struct {
	c *maps.Client
}

// NewGoogleFinder builds a GoogleFinder from an API key.
func NewGoogleFinder(apiKey string) (*GoogleFinder, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleFinder{c: c}, nil
}

// FindRestaurants geocodes the city when given one, then runs a
// NearbySearch for restaurants around the resolved location.
func (g *GoogleFinder) FindRestaurants(ctx context.Context, q Query) ([]Restaurant, error) {
	loc := maps.LatLng{Lat: q.Lat, Lng: q.Lng}
	if q.City != "" {
		results, err := g.c.Geocode(ctx, &maps.GeocodingRequest{Address: q.City})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, ErrCityNotFound
		}
		loc = results[0].Geometry.Location
	}

	resp, err := g.c.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &loc,
		Radius:   searchRadiusMeters,
		Type:     maps.PlaceTypeRestaurant,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Restaurant, 0, len(resp.Results))
	for _, p := range resp.Results {
		out = append(out, Restaurant{
			Name:    p.Name,
			Address: p.Vicinity,
			Rating:  p.Rating,
		})
	}
	return out, nil
}
