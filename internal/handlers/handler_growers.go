package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	growersPage = "/growers"
	// growersOverviewLimit bounds the read-only list shown to non-growers.
	growersOverviewLimit = 20
)

// growersHandler serves the grower work item page and its forms.
type growersHandler struct {
	workItems portssvc.WorkItemSvcFacade
}

func registerGrowersRoutes(r *gin.Engine, manager *middleware.SessionManager, workItems portssvc.WorkItemSvcFacade) {
	h := &growersHandler{workItems: workItems}

	growers := r.Group(growersPage)
	{
		growers.GET("", manager.RoleRequired(domain.RoleGrowers, domain.RoleManagement, domain.RoleAdmin), h.page)
		growers.POST("/work-items", manager.RoleRequired(domain.RoleGrowers), h.create)
		growers.POST("/work-items/:itemID", manager.RoleRequired(domain.RoleGrowers), h.edit)
	}
}

// page godoc
// @Summary Grower work items
// @Description Growers see their own items; management and admin see the most recent items read-only.
// @Tags growers
// @Produce json
// @Success 200 {object} dto.GrowersPageResponse
// @Success 303 "Redirect for callers without access"
// @Router /growers [get]
func (h *growersHandler) page(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	resp := dto.GrowersPageResponse{Principal: dto.ToPrincipalResponse(p)}
	if p.Role == domain.RoleGrowers {
		items, err := h.workItems.ListForGrower(ctx, p.UserID)
		if err != nil {
			pageFailed(c, err)
			return
		}
		resp.Items = dto.ToWorkItemResponses(items, p.UserID)
	} else {
		items, err := h.workItems.ListRecent(ctx, growersOverviewLimit)
		if err != nil {
			pageFailed(c, err)
			return
		}
		resp.Items = dto.ToWorkItemResponses(items, "")
		resp.ReadOnly = true
	}
	c.JSON(http.StatusOK, resp)
}

// create godoc
// @Summary Create a work item
// @Description Adds a pending item for the calling grower. Blank title or lot code is a no-op.
// @Tags growers
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param item body dto.WorkItemInput true "Work item"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /growers"
// @Router /growers/work-items [post]
func (h *growersHandler) create(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input dto.WorkItemInput
	if err := c.ShouldBind(&input); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind work item form", slog.String("error", err.Error()))
	}

	result, err := h.workItems.CreateWorkItem(c.Request.Context(), *p, input)
	if err != nil {
		actionFailed(c, growersPage, err)
		return
	}
	actionDone(c, growersPage, dto.ToActionResponse(result), "")
}

// edit godoc
// @Summary Edit a work item
// @Description Rewrites a pending item owned by the caller. Items already reviewed or owned by others are left unchanged.
// @Tags growers
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param itemID path string true "Work item ID"
// @Param item body dto.WorkItemInput true "Work item"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /growers"
// @Router /growers/work-items/{itemID} [post]
func (h *growersHandler) edit(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input dto.WorkItemInput
	if err := c.ShouldBind(&input); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind work item form", slog.String("error", err.Error()))
	}

	result, err := h.workItems.EditWorkItem(c.Request.Context(), *p, c.Param("itemID"), input)
	if err != nil {
		actionFailed(c, growersPage, err)
		return
	}
	actionDone(c, growersPage, dto.ToActionResponse(result), "")
}
