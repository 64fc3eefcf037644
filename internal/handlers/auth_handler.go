package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rds-portal/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	cookieName  string
}

func NewAuthHandler(authService *services.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName}
}

// ShowLogin handles GET /login. Already-authenticated users go straight to
// the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	token, _ := c.Cookie(h.cookieName)
	if session, _ := h.authService.SessionFromToken(c.Request.Context(), token); session != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"page_title": "Sign In",
		"flashes":    TakeFlashes(c),
	})
}

// Login handles POST /login. Failures redirect back to GET /login with a
// generic notice and no retained credentials, so a reload never resubmits.
func (h *AuthHandler) Login(c *gin.Context) {
	token, _ := c.Cookie(h.cookieName)
	if session, _ := h.authService.SessionFromToken(c.Request.Context(), token); session != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var req struct {
		Username string `form:"username"`
		Password string `form:"password"`
		Remember string `form:"remember"`
	}
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		AddFlash(c, "error", "Invalid username or password. Please check your credentials and try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, req.Remember != "", token)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			// Internal failures still show the same generic notice.
			fmt.Printf("ERROR in Login handler: %v\n", err)
		}
		AddFlash(c, "error", "Invalid username or password. Please check your credentials and try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetCookie(h.cookieName, result.Token, result.MaxAge, "/", "", false, true)
	AddFlash(c, "success", fmt.Sprintf("Welcome back, %s! You have successfully logged in to the Self-Service Portal.", result.Username))
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout handles GET and POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookieName)
	h.authService.Logout(c.Request.Context(), token)

	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	AddFlash(c, "info", "You have been logged out.")
	c.Redirect(http.StatusFound, "/login")
}
