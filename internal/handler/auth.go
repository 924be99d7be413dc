package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // sentinel error matching
    "log"      // internal fault logging
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/restaurant-finder/internal/config"     // app configuration
    "github.com/iliyamo/restaurant-finder/internal/middleware" // bearer token extraction
    "github.com/iliyamo/restaurant-finder/internal/repository" // store interfaces
    "github.com/iliyamo/restaurant-finder/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    repository.UserStore
	Sessions repository.SessionTokenStore
}

func NewAuthHandler(cfg config.Config, u repository.UserStore, s repository.SessionTokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Register: create a user record.  No token is issued here; login is a
// separate step.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Existence check first for the common case.  The UNIQUE keys on the
	// users table remain the actual guard: a concurrent insert that slips
	// past this check surfaces as ErrUserExists from Create below.
	_, err := h.Users.GetByUsernameOrEmail(ctx, req.Username, req.Email)
	if err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		log.Printf("register: user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if _, err := h.Users.Create(ctx, req.Username, req.Email, hash); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		log.Printf("register: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered"})
}

// Login: verify credentials, mint a signed token, persist the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email and wrong password produce the same response so
		// the endpoint cannot be used to enumerate accounts.
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Printf("login: user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTLMin)
	if err != nil {
		log.Printf("login: issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	// The session row must exist before the token is handed out.  A token
	// that passes signature checks but is absent from the store would be
	// rejected by the middleware forever; failing the whole login is the
	// only honest outcome.
	if err := h.Sessions.Create(ctx, u.ID, tok.Token, tok.Exp); err != nil {
		log.Printf("login: save session failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, loginResp{Token: tok.Token, Expires: tok.Exp})
}

// Logout: revoke the presented token.  The token is only a lookup key
// here; an expired or tampered token still names a session row, so no
// signature or expiry verification happens first.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.BearerToken(c.Request())
	if token == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": "no token provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Deactivate(ctx, token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "token not found"})
		}
		log.Printf("logout: deactivate failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
