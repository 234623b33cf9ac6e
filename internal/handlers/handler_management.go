package handlers

import (
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// managementHandler serves the KPI overview.
type managementHandler struct {
	workItems portssvc.WorkItemSvcFacade
}

func registerManagementRoutes(r *gin.Engine, manager *middleware.SessionManager, workItems portssvc.WorkItemSvcFacade) {
	h := &managementHandler{workItems: workItems}
	r.GET("/management", manager.RoleRequired(domain.RoleManagement, domain.RoleAdmin), h.page)
}

// page godoc
// @Summary Management overview
// @Description Work item counts, pass rate and the most recent items.
// @Tags management
// @Produce json
// @Param limit query int false "Recent items to show" default(8)
// @Success 200 {object} dto.ManagementPageResponse
// @Success 303 "Redirect for callers without access"
// @Failure 400 {object} ErrorResponse
// @Router /management [get]
func (h *managementHandler) page(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListRecentParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 100"})
		return
	}

	var (
		kpis   domain.ManagementKpi
		recent []domain.WorkItem
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		kpis, err = h.workItems.ComputeKpis(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.workItems.ListRecent(ctx, params.Limit)
		return err
	})
	if err := g.Wait(); err != nil {
		pageFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ManagementPageResponse{
		Principal: dto.ToPrincipalResponse(p),
		Kpis:      kpis,
		Recent:    dto.ToWorkItemResponses(recent, ""),
	})
}
