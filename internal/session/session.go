// internal/session/session.go
//
// Signed session tokens that bind a browser to its board.
// Responsibilities:
//   - Issue HS256 JWTs carrying the board id ("bid") and an expiry.
//   - Parse and verify tokens from a cookie or an Authorization header.
//   - Set/clear the session cookie.

package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName holds the session token.
const CookieName = "matchboard_session"

// ErrInvalidToken covers missing, tampered and expired tokens.
var ErrInvalidToken = errors.New("session: invalid token")

// Manager issues and verifies tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager returns a Manager. secure marks cookies Secure + SameSite=None.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

type claims struct {
	BoardID string `json:"bid"`
	jwt.RegisteredClaims
}

// Issue signs a token for boardID.
func (m *Manager) Issue(boardID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		BoardID: boardID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(m.secret)
	return ss, exp, err
}

// Parse verifies a token and returns its board id.
func (m *Manager) Parse(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !t.Valid || c.BoardID == "" {
		return "", ErrInvalidToken
	}
	return c.BoardID, nil
}

// FromRequest extracts the board id from "Authorization: Bearer" or the cookie.
func (m *Manager) FromRequest(r *http.Request) (string, error) {
	return m.Parse(tokenFrom(r))
}

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, m.cookie(token, exp, 0))
}

// ClearCookie deletes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Time{}, -1))
}

func (m *Manager) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if m.secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

func tokenFrom(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
