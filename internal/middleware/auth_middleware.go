package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

const userKey = "user"

// AuthMiddleware resolves the signed-in user from the backend session
type AuthMiddleware struct {
	authService *services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// RequireUser asks the backend who is signed in. Visitors without a session
// get the welcome page.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authService.CurrentUser(c.Request.Context())
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				m.RenderWelcome(c, http.StatusUnauthorized)
				c.Abort()
				return
			}
			HandleConsoleError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RenderWelcome shows the sign-in page
func (m *AuthMiddleware) RenderWelcome(c *gin.Context, status int) {
	logger.FromContext(c.Request.Context()).Debug().Msg("No backend session, showing welcome page")
	c.HTML(status, views.Welcome, views.WelcomePage{
		Page:     views.Page{Title: "Welcome"},
		LoginURL: m.authService.LoginURL(),
	})
}

// CurrentUser returns the user stored by RequireUser, or nil
func CurrentUser(c *gin.Context) *models.UserProfile {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.UserProfile); ok {
			return user
		}
	}
	return nil
}
