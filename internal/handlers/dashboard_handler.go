package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rds-portal/internal/models"
	"rds-portal/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	authService      *services.AuthService
}

func NewDashboardHandler(dashboardService *services.DashboardService, authService *services.AuthService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		authService:      authService,
	}
}

// Dashboard handles GET / and GET /dashboard.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	summary := h.dashboardService.Summarize(c.Request.Context(), session.Username)

	flashes := TakeFlashes(c)
	if !session.Welcomed {
		// One-time welcome per session, tracked as an explicit session attribute.
		flashes = append(flashes, Flash{
			Level:   "success",
			Message: fmt.Sprintf("Welcome to the Self-Service Portal, %s!", session.Username),
		})
		h.authService.MarkWelcomed(c.Request.Context(), session.ID)
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"page_title":        "Dashboard",
		"username":          session.Username,
		"current_time":      time.Now(),
		"total_instances":   summary.Total,
		"running_instances": summary.Running,
		"recent_instances":  summary.Recent,
		"has_rds_data":      summary.HasData,
		"flashes":           flashes,
	})
}

func sessionFromContext(c *gin.Context) *models.Session {
	v, ok := c.Get("session")
	if !ok {
		return nil
	}
	session, ok := v.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
