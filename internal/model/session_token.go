package model

import "time"

// Session token status values.  A token only ever moves from active to
// inactive; inactive is terminal.  Rows are never deleted by the
// application, expiry is purely logical.
const (
    SessionActive   = "active"
    SessionInactive = "inactive"
)

// SessionToken models an entry in the `session_tokens` table.  Each row
// records a signed token issued at login.  The token column is UNIQUE
// across the whole table; a duplicate insert is a hard error, not an
// overwrite.  ExpiresAt mirrors the expiry embedded in the token itself
// and is immutable once written.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  Token     – the signed token value handed to the client.
//  Status    – "active" or "inactive" (revoked).
//  ExpiresAt – expiration timestamp of the token.
//  CreatedAt – timestamp of issuance.
type SessionToken struct {
    ID        uint64    // session_tokens.id
    UserID    uint64    // session_tokens.user_id
    Token     string    // session_tokens.token
    Status    string    // session_tokens.status
    ExpiresAt time.Time // session_tokens.expires_at
    CreatedAt time.Time // session_tokens.created_at
}
