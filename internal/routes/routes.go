package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rds-portal/internal/handlers"
	"rds-portal/internal/middlewares"
	"rds-portal/internal/services"
)

func RegisterRoutes(
	router *gin.Engine,
	authService *services.AuthService,
	cookieName string,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	instanceHandler *handlers.InstanceHandler,
) {
	authRoutes := NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(router)

	protected := router.Group("/")
	protected.Use(middlewares.RequireSession(authService, cookieName))

	dashboardRoutes := NewDashboardRoutes(dashboardHandler)
	dashboardRoutes.RegisterRoutes(protected)

	instanceRoutes := NewInstanceRoutes(instanceHandler)
	instanceRoutes.RegisterRoutes(protected)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
