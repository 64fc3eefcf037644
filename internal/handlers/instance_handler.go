package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rds-portal/internal/forms"
	"rds-portal/internal/models"
	"rds-portal/internal/responses"
	"rds-portal/internal/services"
)

type InstanceHandler struct {
	instanceService *services.InstanceService
}

func NewInstanceHandler(instanceService *services.InstanceService) *InstanceHandler {
	return &InstanceHandler{instanceService: instanceService}
}

// List handles GET /instances with search, status filter and pagination.
func (h *InstanceHandler) List(c *gin.Context) {
	session := sessionFromContext(c)

	search := strings.TrimSpace(c.Query("search"))
	status := strings.TrimSpace(c.Query("status"))
	page, _ := strconv.Atoi(c.Query("page"))

	result, err := h.instanceService.List(c.Request.Context(), session.Username, search, status, page)
	if err != nil {
		fmt.Printf("ERROR in List handler: %v\n", err)
		if wantsJSON(c) {
			responses.Fail(c, http.StatusInternalServerError, err, "Failed to list instances")
			return
		}
		c.String(http.StatusInternalServerError, "Failed to list instances")
		return
	}

	if wantsJSON(c) {
		responses.Success(c, http.StatusOK, gin.H{
			"instances":   result.Items,
			"total":       result.Total,
			"page":        result.Page,
			"total_pages": result.TotalPages,
		}, "Instances retrieved successfully")
		return
	}

	c.HTML(http.StatusOK, "instances_list.html", gin.H{
		"page_title":      "RDS Instances",
		"username":        session.Username,
		"instances":       result.Items,
		"total_instances": result.Total,
		"page":            result.Page,
		"total_pages":     result.TotalPages,
		"has_prev":        result.Page > 1,
		"has_next":        result.Page < result.TotalPages,
		"prev_page":       result.Page - 1,
		"next_page":       result.Page + 1,
		"search_query":    search,
		"status_filter":   status,
		"status_choices":  models.StatusChoices,
		"flashes":         TakeFlashes(c),
	})
}

// ShowCreate handles GET /instances/create.
func (h *InstanceHandler) ShowCreate(c *gin.Context) {
	session := sessionFromContext(c)
	h.renderCreate(c, http.StatusOK, session.Username, &forms.InstanceForm{}, nil, TakeFlashes(c))
}

// Create handles POST /instances/create. Validation failures re-render the
// form with field messages and no side effects; provisioning failures keep
// the failed record and notify the user.
func (h *InstanceHandler) Create(c *gin.Context) {
	session := sessionFromContext(c)

	var form forms.InstanceForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderCreate(c, http.StatusBadRequest, session.Username, &form, forms.Errors{"form": "Please correct the errors below."}, nil)
		return
	}

	instance, fieldErrs, err := h.instanceService.Create(c.Request.Context(), session.Username, &form)
	if len(fieldErrs) > 0 {
		h.renderCreate(c, http.StatusOK, session.Username, &form, fieldErrs, nil)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrProvisionFailed) {
			// The attempt is recorded: the instance stays listed as failed.
			flash := Flash{Level: "error", Message: fmt.Sprintf("Failed to create RDS instance: %s", err.Error())}
			h.renderCreate(c, http.StatusOK, session.Username, &form, nil, []Flash{flash})
			return
		}
		fmt.Printf("ERROR in Create handler: %v\n", err)
		h.renderCreate(c, http.StatusInternalServerError, session.Username, &form, forms.Errors{"form": "Something went wrong. Please try again."}, nil)
		return
	}

	AddFlash(c, "success", fmt.Sprintf(
		"RDS instance %q has been created successfully! It may take a few minutes to become available.",
		instance.DatabaseName))
	c.Redirect(http.StatusFound, "/instances")
}

// Detail handles GET /instances/:id. Foreign and missing ids both 404.
func (h *InstanceHandler) Detail(c *gin.Context) {
	session := sessionFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	instance, err := h.instanceService.Get(c.Request.Context(), session.Username, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(c)
			return
		}
		fmt.Printf("ERROR in Detail handler: %v\n", err)
		c.String(http.StatusInternalServerError, "Failed to load instance")
		return
	}

	if wantsJSON(c) {
		responses.Success(c, http.StatusOK, instance, "Instance retrieved successfully")
		return
	}

	c.HTML(http.StatusOK, "instances_detail.html", gin.H{
		"page_title":        fmt.Sprintf("RDS Instance: %s", instance.DatabaseName),
		"username":          session.Username,
		"instance":          instance,
		"connection_string": instance.ConnectionString(),
		"flashes":           TakeFlashes(c),
	})
}

// Delete handles POST /instances/:id/delete. The record is removed only when
// deprovisioning succeeds; otherwise it stays untouched and the error is
// reported. JSON callers get a structured success/error payload.
func (h *InstanceHandler) Delete(c *gin.Context) {
	session := sessionFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	instance, err := h.instanceService.Delete(c.Request.Context(), session.Username, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			h.notFound(c)
		case errors.Is(err, services.ErrDeprovisionFailed):
			if wantsJSON(c) {
				c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
				return
			}
			AddFlash(c, "error", fmt.Sprintf("Failed to delete RDS instance: %s", err.Error()))
			c.Redirect(http.StatusFound, "/instances")
		default:
			fmt.Printf("ERROR in Delete handler: %v\n", err)
			if wantsJSON(c) {
				responses.Fail(c, http.StatusInternalServerError, err, "Failed to delete instance")
				return
			}
			AddFlash(c, "error", "Failed to delete RDS instance.")
			c.Redirect(http.StatusFound, "/instances")
		}
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	AddFlash(c, "success", fmt.Sprintf("RDS instance %q has been deleted successfully.", instance.DatabaseName))
	c.Redirect(http.StatusFound, "/instances")
}

func (h *InstanceHandler) renderCreate(c *gin.Context, status int, username string, form *forms.InstanceForm, fieldErrs forms.Errors, flashes []Flash) {
	c.HTML(status, "instances_create.html", gin.H{
		"page_title":     "Create RDS Instance",
		"username":       username,
		"form":           form,
		"errors":         fieldErrs,
		"engine_choices": models.EngineChoices,
		"class_choices":  models.InstanceClassChoices,
		"flashes":        flashes,
	})
}

func (h *InstanceHandler) notFound(c *gin.Context) {
	if wantsJSON(c) {
		responses.Fail(c, http.StatusNotFound, nil, "Instance not found")
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
