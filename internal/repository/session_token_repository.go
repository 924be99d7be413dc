package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-finder/internal/model"
)

// SessionTokenStore persists issued session tokens.  It is the stateful
// half of request authorization: the token's signature proves who issued
// it, the store decides whether it is still honored.
type SessionTokenStore interface {
	// Create persists a new active session.  A token value collision
	// yields ErrDuplicateToken.
	Create(ctx context.Context, userID uint64, token string, expiresAt time.Time) error
	// FindActive returns the session iff it is active, unexpired at now,
	// and owned by userID.  A miss yields ErrTokenNotFound.
	FindActive(ctx context.Context, token string, userID uint64, now time.Time) (model.SessionToken, error)
	// Deactivate transitions a session from active to inactive.  The
	// transition happens at most once; ErrTokenNotFound means there was
	// nothing left to revoke.
	Deactivate(ctx context.Context, token string) error
}

// SessionTokenRepo is the MySQL-backed SessionTokenStore.  The `token`
// column carries a UNIQUE key, which enforces global token uniqueness at
// the database rather than trusting the issuer.
type SessionTokenRepo struct{ DB *sql.DB }

func NewSessionTokenRepo(db *sql.DB) *SessionTokenRepo { return &SessionTokenRepo{DB: db} }

// Create inserts an active session row.
func (r *SessionTokenRepo) Create(ctx context.Context, userID uint64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO session_tokens (user_id, token, status, expires_at) VALUES (?,?,?,?)",
		userID, token, model.SessionActive, expiresAt)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrDuplicateToken
	}
	return err
}

// FindActive returns the matching active, unexpired session.
func (r *SessionTokenRepo) FindActive(ctx context.Context, token string, userID uint64, now time.Time) (model.SessionToken, error) {
	var s model.SessionToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,status,expires_at,created_at FROM session_tokens WHERE token=? AND user_id=? AND status=? AND expires_at>? LIMIT 1",
		token, userID, model.SessionActive, now).
		Scan(&s.ID, &s.UserID, &s.Token, &s.Status, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionToken{}, ErrTokenNotFound
	}
	return s, err
}

// Deactivate flips an active session to inactive.  The single UPDATE with
// the status predicate makes the transition atomic under concurrent
// logouts: exactly one call observes RowsAffected==1, every later call
// gets ErrTokenNotFound.
func (r *SessionTokenRepo) Deactivate(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE session_tokens SET status=? WHERE token=? AND status=?",
		model.SessionInactive, token, model.SessionActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
