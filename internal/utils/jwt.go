package utils // package utils provides helper functions for session token creation and verification

import (
    "errors"
    "strconv"
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned for any token that fails verification.  A
// malformed value, a bad signature and an expired token all collapse into
// this single error so callers cannot tell which check rejected it.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken represents a signed HS256 JWT along with its expiry.  The
// Token field contains the serialized JWT handed to the client; Exp is
// the UTC instant after which the token is no longer honored.  The same
// expiry is persisted with the session row so the codec and the store
// agree on the token's lifetime.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, and a TTL in minutes.  The JWT carries the
// standard claims: subject (sub), expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, ttlMin int) (SessionToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken parses and verifies a signed token and returns the
// embedded user ID.  Verification checks structure, the HMAC signature
// against the secret, and expiry; any failure yields ErrInvalidToken.
func VerifySessionToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with a different algorithm family.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrInvalidToken
    }
    // Numeric JSON claims decode as float64; tolerate string subjects too.
    switch sub := claims["sub"].(type) {
    case float64:
        return uint64(sub), nil
    case string:
        if id, err := strconv.ParseUint(sub, 10, 64); err == nil {
            return id, nil
        }
    }
    return 0, ErrInvalidToken
}
