// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// SearchPerformedEvent is published after every successful restaurant
// search.  It carries enough information for downstream consumers to log
// or run analytics without querying the primary database.
type SearchPerformedEvent struct {
    UserID     uint64 `json:"user_id"`
    City       string `json:"city,omitempty"`
    Latitude   string `json:"latitude,omitempty"`
    Longitude  string `json:"longitude,omitempty"`
    Results    int    `json:"results"`
    SearchedAt string `json:"searched_at"`
}
