package handlers

import (
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const qualityControlPage = "/packing-employee"

// qualityControlHandler serves the inspection queue.
type qualityControlHandler struct {
	workItems portssvc.WorkItemSvcFacade
}

func registerQualityControlRoutes(r *gin.Engine, manager *middleware.SessionManager, workItems portssvc.WorkItemSvcFacade) {
	h := &qualityControlHandler{workItems: workItems}

	qc := r.Group(qualityControlPage)
	{
		qc.GET("", manager.RoleRequired(domain.RolePackingEmployee, domain.RoleManagement, domain.RoleAdmin), h.page)
		qc.POST("/inspections", manager.RoleRequired(domain.RolePackingEmployee, domain.RoleAdmin), h.inspect)
	}
}

// page godoc
// @Summary Inspection queue
// @Description Pending work items, oldest first. canInspect is set for packing employees and admins.
// @Tags quality-control
// @Produce json
// @Success 200 {object} dto.QualityControlPageResponse
// @Success 303 "Redirect for callers without access"
// @Router /packing-employee [get]
func (h *qualityControlHandler) page(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	queue, err := h.workItems.ListQueue(c.Request.Context())
	if err != nil {
		pageFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QualityControlPageResponse{
		Principal:  dto.ToPrincipalResponse(p),
		Queue:      dto.ToWorkItemResponses(queue, ""),
		CanInspect: p.HasRole(domain.RolePackingEmployee, domain.RoleAdmin),
	})
}

// inspect godoc
// @Summary Record an inspection
// @Description Stores the decision and moves the item out of pending if nobody reviewed it first.
// @Tags quality-control
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param inspection body dto.InspectRequest true "Inspection"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /packing-employee"
// @Failure 400 {object} ErrorResponse
// @Router /packing-employee/inspections [post]
func (h *qualityControlHandler) inspect(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.InspectRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, qualityControlPage, apperrors.NewValidationFailedError("Invalid inspection."))
		return
	}

	result, err := h.workItems.InspectWorkItem(c.Request.Context(), *p, req)
	if err != nil {
		actionFailed(c, qualityControlPage, err)
		return
	}
	actionDone(c, qualityControlPage, dto.ToActionResponse(result), "")
}
