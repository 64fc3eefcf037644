package routes

import (
	"github.com/gin-gonic/gin"

	"rds-portal/internal/handlers"
)

type DashboardRoutes struct {
	handler *handlers.DashboardHandler
}

func NewDashboardRoutes(handler *handlers.DashboardHandler) *DashboardRoutes {
	return &DashboardRoutes{handler: handler}
}

func (r *DashboardRoutes) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/", r.handler.Dashboard)
	protected.GET("/dashboard", r.handler.Dashboard)
}
