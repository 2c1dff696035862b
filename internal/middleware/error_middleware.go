package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// StatusFor maps a console error to the status of the page that reports it
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicateSubmission),
		errors.Is(err, apperrors.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrNothingToConfirm),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInitThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		return http.StatusBadGateway
	}
	if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// HandleConsoleError renders the error page with the classified message
func HandleConsoleError(c *gin.Context, err error) {
	message := apperrors.Classify(err)
	status := StatusFor(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.StatusMsg != "" {
		message = custom.StatusMsg
	}

	evt := logger.FromContext(c.Request.Context()).Warn()
	if status >= 500 {
		evt = logger.FromContext(c.Request.Context()).Error()
	}
	evt.Err(err).Int("status", status).Msg("Request failed")

	c.HTML(status, views.ErrorPage, views.ErrorView{
		Page: views.Page{
			Title: "Error",
			User:  CurrentUser(c),
			Error: message,
		},
		Status:   status,
		Recovery: apperrors.RecoveryFor(message),
		BackURL:  "/domains-list",
	})
	c.Abort()
}
