package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/store"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Sessions mints, validates, and destroys cookie-backed sessions.
type Sessions struct {
	store      *store.Store
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewSessions(st *store.Store, ttl time.Duration, cookieName string, secure bool) *Sessions {
	return &Sessions{store: st, ttl: ttl, cookieName: cookieName, secure: secure}
}

// Create mints a random token and persists it for the creator.
func (s *Sessions) Create(ctx context.Context, creatorID int64) (*models.Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	return s.store.CreateSession(ctx, creatorID, token, time.Now().Add(s.ttl))
}

// Validate checks a token and returns the authenticated creator id.
func (s *Sessions) Validate(ctx context.Context, token string) (int64, error) {
	sess, err := s.store.GetSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	if sess.ExpiresAt.Before(time.Now()) {
		return 0, ErrSessionExpired
	}
	return sess.CreatorID, nil
}

// Destroy invalidates a session token. Unknown tokens are ignored.
func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return err
	}
	// Also clear the redundant copy on the creator row.
	return s.store.ClearSessionToken(ctx, token)
}

// CleanupExpired removes all expired sessions.
func (s *Sessions) CleanupExpired(ctx context.Context) error {
	return s.store.DeleteExpiredSessions(ctx)
}

// CookieName returns the name of the session cookie.
func (s *Sessions) CookieName() string {
	return s.cookieName
}

// SetCookie attaches the session cookie to a response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(s.ttl),
	})
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
