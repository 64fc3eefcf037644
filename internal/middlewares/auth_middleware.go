package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rds-portal/internal/handlers"
	"rds-portal/internal/responses"
	"rds-portal/internal/services"
)

// RequireSession gates protected pages. Browsers are redirected to the login
// page; JSON callers get a plain 401.
func RequireSession(authService *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		session, err := authService.SessionFromToken(c.Request.Context(), token)
		if err != nil || session == nil {
			if wantsJSON(c) {
				responses.Fail(c, http.StatusUnauthorized, nil, "Authentication required")
				c.Abort()
				return
			}
			handlers.AddFlash(c, "info", "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("username", session.Username)
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
