package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/erpconsole/internal/app/repositories"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// RequestIDHeader is read from the client and echoed back
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestContext gives every request an id and a request-scoped logger, and
// arranges for the browser's cookies to be forwarded on backend calls.
func RequestContext(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)

		lgr := base.With().Str("request_id", rid).Logger()
		ctx := logger.IntoContext(c.Request.Context(), lgr)
		ctx = repositories.WithRequestID(ctx, rid)
		if cookies := c.GetHeader("Cookie"); cookies != "" {
			ctx = repositories.WithForwardedCookies(ctx, cookies)
		}
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := lgr.Info()
		if status >= 500 {
			evt = lgr.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}

// GetRequestID returns the id assigned by RequestContext
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
