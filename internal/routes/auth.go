package routes

import (
	"github.com/gin-gonic/gin"

	"rds-portal/internal/handlers"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
}

func NewAuthRoutes(handler *handlers.AuthHandler) *AuthRoutes {
	return &AuthRoutes{handler: handler}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", r.handler.ShowLogin)
	router.POST("/login", r.handler.Login)

	// GET logout is accepted for convenience while prototyping.
	router.GET("/logout", r.handler.Logout)
	router.POST("/logout", r.handler.Logout)
}
