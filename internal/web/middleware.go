package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/theme"
)

const (
	visitorCookieName = "portfolio-visitor"
	visitorMaxAge     = 365 * 24 * 60 * 60
)

type visitorKey struct{}

// visitorFrom returns the visitor id set by visitorMiddleware, or "".
func visitorFrom(ctx context.Context) string {
	v, _ := ctx.Value(visitorKey{}).(string)
	return v
}

func skipVisitor(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/healthz"
}

// visitorMiddleware gives each browser a random id so its theme can be
// remembered. Static assets and health checks are left alone.
func (s *Server) visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipVisitor(c.Request.URL.Path) {
			c.Next()
			return
		}

		id, err := c.Cookie(visitorCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookieName, id, visitorMaxAge, "/", "", s.secure, true)
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), visitorKey{}, id))
		c.Next()
	}
}

// themeMiddleware attaches the visitor's saved theme to the request context.
func (s *Server) themeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor := visitorFrom(c.Request.Context())
		if visitor == "" {
			c.Next()
			return
		}

		mode, err := s.prefs.Get(c.Request.Context(), visitor)
		if err != nil {
			s.log.Warn("loading theme preference", zap.Error(err))
			mode = theme.Dark
		}
		c.Request = c.Request.WithContext(theme.WithMode(c.Request.Context(), mode))
		c.Next()
	}
}
