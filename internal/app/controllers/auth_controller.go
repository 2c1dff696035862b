package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// AuthController handles the session pages. Signing in happens on the
// backend; the console only links to it.
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Home sends signed-in users to the domain list
// @Summary Console entry point
// @Tags auth
// @Produce html
// @Success 303 {string} string "Redirect to the domains list"
// @Failure 401 {string} string "Welcome page"
// @Router / [get]
func (ac *AuthController) Home(ctx *gin.Context) {
	ctx.Redirect(http.StatusSeeOther, "/domains-list")
}

// SignOut ends the backend session and relays its cookie changes
// @Summary Sign out
// @Tags auth
// @Produce html
// @Success 303 {string} string "Redirect to the welcome page"
// @Router /signout [post]
func (ac *AuthController) SignOut(ctx *gin.Context) {
	cookies, err := ac.authService.SignOut(ctx.Request.Context())
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Warn().Err(err).Msg("Backend sign out failed")
	}
	for _, ck := range cookies {
		http.SetCookie(ctx.Writer, ck)
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}
