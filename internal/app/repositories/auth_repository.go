package repositories

import (
	"context"
	"net/http"

	"github.com/yigit/erpconsole/internal/app/models"
)

// AuthRepository reads the signed-in user from the backend session
type AuthRepository struct {
	client *BackendClient
}

// NewAuthRepository creates a new auth repository
func NewAuthRepository(client *BackendClient) *AuthRepository {
	return &AuthRepository{
		client: client,
	}
}

// CurrentUser returns the profile behind the forwarded session cookie.
// A missing or expired session is a 401 APIError.
func (r *AuthRepository) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.client.doJSON(ctx, "auth.me", http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SignOut ends the backend session and returns the cookies the backend set
// so they can be relayed to the browser.
func (r *AuthRepository) SignOut(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := r.client.do(ctx, "auth.signout", http.MethodPost, "/signout", nil)
	if err != nil {
		return nil, err
	}
	return (&http.Response{Header: resp.header}).Cookies(), nil
}

// LoginURL is where the browser starts the backend's OAuth login
func (r *AuthRepository) LoginURL() string {
	return r.client.BaseURL() + "/login"
}
