package services

import (
	"context"
	"net/http"

	"github.com/yigit/erpconsole/internal/app/models"
)

// SessionStore reads and ends the backend session
type SessionStore interface {
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
	SignOut(ctx context.Context) ([]*http.Cookie, error)
	LoginURL() string
}

// AuthService exposes the signed-in user. The backend owns authentication;
// the console only forwards the browser's cookies.
type AuthService struct {
	sessions SessionStore
}

// NewAuthService creates a new auth service instance
func NewAuthService(sessions SessionStore) *AuthService {
	return &AuthService{sessions: sessions}
}

// CurrentUser returns the profile or an error matching apperrors.ErrUnauthenticated
func (s *AuthService) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	return s.sessions.CurrentUser(ctx)
}

// SignOut ends the session and returns the cookies to relay to the browser
func (s *AuthService) SignOut(ctx context.Context) ([]*http.Cookie, error) {
	return s.sessions.SignOut(ctx)
}

// LoginURL is the backend login entry point
func (s *AuthService) LoginURL() string {
	return s.sessions.LoginURL()
}
