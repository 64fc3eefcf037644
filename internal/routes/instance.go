package routes

import (
	"github.com/gin-gonic/gin"

	"rds-portal/internal/handlers"
)

type InstanceRoutes struct {
	handler *handlers.InstanceHandler
}

func NewInstanceRoutes(handler *handlers.InstanceHandler) *InstanceRoutes {
	return &InstanceRoutes{handler: handler}
}

func (r *InstanceRoutes) RegisterRoutes(protected *gin.RouterGroup) {
	instances := protected.Group("/instances")
	{
		instances.GET("", r.handler.List)
		instances.GET("/create", r.handler.ShowCreate)
		instances.POST("/create", r.handler.Create)
		instances.GET("/:id", r.handler.Detail)
		instances.POST("/:id/delete", r.handler.Delete)
	}
}
