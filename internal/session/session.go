// Package session maps the session cookie to and from signed tokens. Sessions
// are self-contained: the server keeps no session state and cannot revoke a
// token before its natural expiry.
package session

import (
	"net/http"
	"time"

	"github.com/newswire/newswire-go/internal/crypto"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// Manager issues session tokens and manages the cookie that carries them.
type Manager struct {
	secret string
	ttl    time.Duration
	secure bool
}

// NewManager creates a session Manager. secure controls the cookie's Secure
// attribute and should be true whenever the API is served over TLS.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: secret, ttl: ttl, secure: secure}
}

// Issue creates a signed session token for the given user.
func (m *Manager) Issue(userID int64, username string) (string, error) {
	return crypto.GenerateToken(userID, username, m.secret, m.ttl)
}

// Attach sets the session cookie on the response. SameSite=None is required
// because the frontend is served from a different origin than the API;
// tightening it breaks cross-origin login.
func (m *Manager) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// Read extracts the session token from the request. A missing cookie is not
// an error by itself, only a precondition failure for protected operations.
func (m *Manager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Require reads and verifies the session cookie, returning the asserted
// identity. Missing, tampered, and expired tokens all fail the same way here;
// callers must not tell the client which case occurred.
func (m *Manager) Require(r *http.Request) (*crypto.Claims, error) {
	token, ok := m.Read(r)
	if !ok {
		return nil, crypto.ErrInvalidToken
	}
	return crypto.ValidateToken(token, m.secret)
}

// Clear overwrites the session cookie with an empty, immediately-expired one.
// This is the entire logout contract: a token already held by a client that
// ignores the cookie instruction stays cryptographically valid until expiry.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteNoneMode,
	})
}
