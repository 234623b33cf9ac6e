package handlers

import (
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type workItemHistoryHandler struct {
	workItems portssvc.WorkItemSvcFacade
}

func registerWorkItemRoutes(r *gin.Engine, manager *middleware.SessionManager, workItems portssvc.WorkItemSvcFacade) {
	h := &workItemHistoryHandler{workItems: workItems}
	r.GET("/work-items/:itemID",
		manager.RoleRequired(domain.RoleGrowers, domain.RolePackingEmployee, domain.RoleManagement, domain.RoleAdmin),
		h.history)
}

// history godoc
// @Summary Work item history
// @Description One work item and every inspection recorded against it. Growers only see their own items.
// @Tags work-items
// @Produce json
// @Param itemID path string true "Work item ID"
// @Success 200 {object} dto.WorkItemHistoryResponse
// @Success 303 "Redirect for callers without access"
// @Failure 404 {object} ErrorResponse
// @Router /work-items/{itemID} [get]
func (h *workItemHistoryHandler) history(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	history, err := h.workItems.GetHistory(c.Request.Context(), *p, c.Param("itemID"))
	if err != nil {
		pageFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkItemHistoryResponse(history, p.UserID))
}
