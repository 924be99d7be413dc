package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-finder/internal/model"
)

// SearchStore records restaurant searches so users can review their
// history.  Recording failures never fail the search itself.
type SearchStore interface {
	Create(ctx context.Context, rec model.SearchRecord) error
	ListByUser(ctx context.Context, userID uint64) ([]model.SearchRecord, error)
}

// SearchRepo is the MySQL-backed SearchStore.
type SearchRepo struct{ DB *sql.DB }

func NewSearchRepo(db *sql.DB) *SearchRepo { return &SearchRepo{DB: db} }

// Create inserts a search record.
func (r *SearchRepo) Create(ctx context.Context, rec model.SearchRecord) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO searches (user_id, city, latitude, longitude, results, searched_at) VALUES (?,?,?,?,?,?)",
		rec.UserID, rec.City, rec.Latitude, rec.Longitude, rec.Results, rec.SearchedAt)
	return err
}

// ListByUser returns the user's searches, newest first.
func (r *SearchRepo) ListByUser(ctx context.Context, userID uint64) ([]model.SearchRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,city,latitude,longitude,results,searched_at FROM searches WHERE user_id=? ORDER BY searched_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.SearchRecord
	for rows.Next() {
		var rec model.SearchRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.City, &rec.Latitude, &rec.Longitude, &rec.Results, &rec.SearchedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
