// Package auth implements the cookie-backed session gate. A session is an
// HS256 JWT carried in a browser cookie, holding the authenticated email as
// its subject. There is no server-side session state; clearing the cookie is
// the whole of logout.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 12 * time.Hour

var (
	ErrMissingSigningSecret = errors.New("auth: signing secret required")
	ErrMissingCookieName    = errors.New("auth: cookie name required")
	ErrMissingSessionToken  = errors.New("auth: session token required")
	ErrInvalidSessionToken  = errors.New("auth: invalid session token")
	ErrExpiredSessionToken  = errors.New("auth: session token expired")
)

// SessionManagerConfig configures session issuing and validation.
type SessionManagerConfig struct {
	SigningSecret []byte
	CookieName    string
	Issuer        string
	SessionTTL    time.Duration
	Clock         func() time.Time
}

// SessionManager issues and validates the signed session cookie.
type SessionManager struct {
	signingSecret []byte
	cookieName    string
	issuer        string
	ttl           time.Duration
	clock         func() time.Time
}

// NewSessionManager constructs a SessionManager with sane defaults.
func NewSessionManager(cfg SessionManagerConfig) (*SessionManager, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, ErrMissingSigningSecret
	}
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		return nil, ErrMissingCookieName
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "pocketnote"
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SessionManager{
		signingSecret: append([]byte(nil), cfg.SigningSecret...),
		cookieName:    cookieName,
		issuer:        issuer,
		ttl:           ttl,
		clock:         clock,
	}, nil
}

// CookieName returns the cookie name used for session lookups.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Issue produces a signed session token for the authenticated email and the
// cookie max-age in seconds. The email may be empty; the session gate checks
// for a valid cookie, not a non-empty identity.
func (m *SessionManager) Issue(email string) (string, int, error) {
	now := m.clock().UTC()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int(m.ttl.Seconds()), nil
}

// ValidateToken checks the token signature, issuer, and expiry, and returns
// the authenticated email.
func (m *SessionManager) ValidateToken(tokenString string) (string, error) {
	token := strings.TrimSpace(tokenString)
	if token == "" {
		return "", ErrMissingSessionToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("%w: unexpected signing algorithm %s", ErrInvalidSessionToken, t.Method.Alg())
			}
			return m.signingSecret, nil
		},
		jwt.WithTimeFunc(m.clock),
		jwt.WithIssuer(m.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredSessionToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if parsed == nil || !parsed.Valid {
		return "", ErrInvalidSessionToken
	}
	return claims.Subject, nil
}

// ValidateRequest extracts the session cookie from the request and validates
// it, returning the authenticated email.
func (m *SessionManager) ValidateRequest(r *http.Request) (string, error) {
	if r == nil {
		return "", ErrMissingSessionToken
	}
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie == nil {
		return "", ErrMissingSessionToken
	}
	return m.ValidateToken(cookie.Value)
}
