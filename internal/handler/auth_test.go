package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/restaurant-finder/internal/config"
	"github.com/iliyamo/restaurant-finder/internal/middleware"
	"github.com/iliyamo/restaurant-finder/internal/model"
	"github.com/iliyamo/restaurant-finder/internal/repository"
	"github.com/iliyamo/restaurant-finder/internal/utils"
)

func testCfg() config.Config {
	return config.Config{
		JWTSecret:     "test-secret-0123456789abcdef",
		SessionTTLMin: 60,
		BcryptCost:    bcrypt.MinCost,
	}
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestRegister_Success(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), newMemSessionStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user registered", decodeBody(t, rec)["message"])
}

func TestRegister_MissingFields(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), newMemSessionStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), newMemSessionStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same email, different username: still a duplicate.
	rec = doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"bob","email":"a@x.com","password":"pw2"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user already exists", decodeBody(t, rec)["error"])
}

// raceUserStore simulates a registration that loses the check-then-act
// race: the existence check sees nothing but the insert collides.
type raceUserStore struct{ *memUserStore }

func (s *raceUserStore) GetByUsernameOrEmail(context.Context, string, string) (model.User, error) {
	return model.User{}, repository.ErrUserNotFound
}

func (s *raceUserStore) Create(context.Context, string, string, string) (uint64, error) {
	return 0, repository.ErrUserExists
}

func TestRegister_CreateTimeDuplicateIsClientError(t *testing.T) {
	h := NewAuthHandler(testCfg(), &raceUserStore{newMemUserStore()}, newMemSessionStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user already exists", decodeBody(t, rec)["error"])
}

func registerAndLogin(t *testing.T, h *AuthHandler, username, email, password string) string {
	t.Helper()
	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"`+username+`","email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin_ReturnsUsableToken(t *testing.T) {
	cfg := testCfg()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	h := NewAuthHandler(cfg, users, sessions)

	token := registerAndLogin(t, h, "alice", "a@x.com", "pw1")

	// The token verifies against the codec and the embedded ID is the
	// registered user's.
	uid, err := utils.VerifySessionToken(cfg.JWTSecret, token)
	require.NoError(t, err)
	u, err := users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	// A matching active session row was persisted.
	row, err := sessions.FindActive(context.Background(), token, uid, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, row.Status)
	assert.True(t, row.ExpiresAt.After(time.Now().UTC()))
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), newMemSessionStore())

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"a@x.com","password":"nope"}`, nil)
	unknownEmail := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"b@x.com","password":"pw1"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Same status, same body: no account enumeration.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLogin_SessionPersistFailureReturnsNoToken(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), &failingSessionStore{})

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"a@x.com","password":"pw1"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestLogout_NoTokenIsInformationalSuccess(t *testing.T) {
	sessions := newMemSessionStore()
	h := NewAuthHandler(testCfg(), newMemUserStore(), sessions)

	rec := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no token provided", decodeBody(t, rec)["message"])
}

func TestLogout_TwiceIsTerminal(t *testing.T) {
	sessions := newMemSessionStore()
	h := NewAuthHandler(testCfg(), newMemUserStore(), sessions)
	token := registerAndLogin(t, h, "alice", "a@x.com", "pw1")

	hdr := http.Header{"Authorization": []string{"Bearer " + token}}

	first := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "", hdr)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "logged out", decodeBody(t, first)["message"])

	second := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "", hdr)
	assert.Equal(t, http.StatusNotFound, second.Code)
	assert.Equal(t, "token not found", decodeBody(t, second)["error"])
}

func TestLogout_UnknownTokenIsNotFound(t *testing.T) {
	h := NewAuthHandler(testCfg(), newMemUserStore(), newMemSessionStore())

	rec := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "",
		http.Header{"Authorization": []string{"never-issued"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestSessionLifecycle exercises the full register -> login ->
// authenticate -> logout -> authenticate sequence through the real
// middleware, the way the routes are wired in production.
func TestSessionLifecycle(t *testing.T) {
	cfg := testCfg()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	h := NewAuthHandler(cfg, users, sessions)

	e := echo.New()
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(cfg.JWTSecret, sessions))
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id")})
	})

	token := registerAndLogin(t, h, "alice", "a@x.com", "pw1")
	u, err := users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	me := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := me()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(u.ID), decodeBody(t, rec)["user_id"])

	out := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", "",
		http.Header{"Authorization": []string{"Bearer " + token}})
	require.Equal(t, http.StatusOK, out.Code)

	// The token still carries a valid signature and expiry, but the
	// revoked session makes it unusable.
	rec = me()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decodeBody(t, rec)["error"])
}
