package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"
    "log"
    "net/http"               // HTTP status codes for responses
    "strings"                // string utilities for prefix checking and trimming
    "time"

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/restaurant-finder/internal/repository"
    "github.com/iliyamo/restaurant-finder/internal/utils"
)

// BearerToken extracts the session token from a request's Authorization
// header.  Both a bare token and the "Bearer <token>" form are accepted;
// the prefix is stripped when present.  An empty string means no token
// was provided.
func BearerToken(r *http.Request) string {
    auth := strings.TrimSpace(r.Header.Get("Authorization"))
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    }
    return auth
}

// SessionAuth returns an Echo middleware that authenticates requests in
// two layers.  The signature and expiry embedded in the token are checked
// first; only a token that passes is looked up in the session store,
// which is what makes logout observable.  A bad signature therefore never
// costs a database round trip.  On success the owning user's ID is
// stored in the context under "user_id" for handlers to read.
func SessionAuth(secret string, sessions repository.SessionTokenStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            token := BearerToken(c.Request())
            if token == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }

            // Layer one: stateless verification of structure, signature
            // and embedded expiry.  All failures collapse into a single
            // response so callers cannot probe which check rejected them.
            userID, err := utils.VerifySessionToken(secret, token)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Layer two: the store is authoritative.  A revoked session,
            // a store-side expiry, or a token that was never issued all
            // look the same from here.
            ctx := c.Request().Context()
            _, err = sessions.FindActive(ctx, token, userID, time.Now().UTC())
            if err != nil {
                if errors.Is(err, repository.ErrTokenNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
                }
                log.Printf("session lookup failed: %v", err)
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
            }

            c.Set("user_id", userID)
            return next(c)
        }
    }
}
