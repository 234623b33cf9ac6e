package handlers

import (
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves the role-neutral entry pages.
type dashboardHandler struct{}

func registerDashboardRoutes(r *gin.Engine, manager *middleware.SessionManager) {
	h := &dashboardHandler{}

	r.GET("/dashboard", manager.AuthRequired(), h.dashboard)
	r.GET("/sanitation", manager.RoleRequired(domain.RoleSanitation, domain.RoleManagement, domain.RoleAdmin), h.sanitation)
}

// dashboard godoc
// @Summary Dashboard
// @Description Sends the caller to their role's landing page.
// @Tags pages
// @Success 303 "Redirect to the landing page"
// @Router /dashboard [get]
func (h *dashboardHandler) dashboard(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	seeOther(c, p.Role.LandingPath())
}

// sanitation godoc
// @Summary Sanitation page
// @Tags pages
// @Produce json
// @Success 200 {object} dto.SanitationPageResponse
// @Success 303 "Redirect for callers without access"
// @Router /sanitation [get]
func (h *dashboardHandler) sanitation(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.SanitationPageResponse{Principal: dto.ToPrincipalResponse(p)})
}
