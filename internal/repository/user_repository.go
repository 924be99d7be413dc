package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-finder/internal/model"
)

// UserStore is the credential store consumed by the auth handlers.  The
// MySQL implementation below satisfies it; tests substitute in-memory
// doubles.
type UserStore interface {
	// Create inserts a user and returns its ID.  A username or email
	// collision yields ErrUserExists.
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
	// GetByUsernameOrEmail returns the first user matching either field,
	// or ErrUserNotFound.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error)
	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// UserRepo is the MySQL-backed UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The UNIQUE keys on username
// and email are the real duplicate guard; error 1062 maps to
// ErrUserExists so a racing registration takes the same path as one
// caught by the prior existence check.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, strings.ToLower(strings.TrimSpace(email)), passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsernameOrEmail fetches a user whose username or email matches.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,created_at,updated_at FROM users WHERE username=? OR email=? LIMIT 1",
		username, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
