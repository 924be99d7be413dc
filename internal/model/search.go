package model

import "time"

// SearchRecord models a row in the `searches` table.  One row is written
// for every successful restaurant search so users can review their
// history.  City is empty for coordinate searches; Latitude/Longitude are
// empty for city searches.  Coordinates are kept as strings exactly as
// the client sent them.
type SearchRecord struct {
    ID         uint64    // searches.id
    UserID     uint64    // searches.user_id
    City       string    // searches.city
    Latitude   string    // searches.latitude
    Longitude  string    // searches.longitude
    Results    int       // searches.results
    SearchedAt time.Time // searches.searched_at
}
