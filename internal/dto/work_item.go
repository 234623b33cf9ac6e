package dto

import "github.com/SscSPs/packhouse_portal/internal/core/domain"

// WorkItemInput is the grower's create/edit form. Title and lot code are checked
// by the service so that blank submissions are ignored rather than rejected.
type WorkItemInput struct {
	Title   string `json:"title" form:"title"`
	LotCode string `json:"lotCode" form:"lot_code"`
	Notes   string `json:"notes" form:"notes"`
}

// InspectRequest is a QC decision on one work item.
type InspectRequest struct {
	WorkItemID string                  `json:"workItemId" form:"work_item_id" binding:"required,uuid"`
	Result     domain.InspectionResult `json:"result" form:"result" binding:"required,inspection_result"`
	Notes      string                  `json:"notes" form:"notes"`
}

// ListRecentParams bounds the recent-items view.
type ListRecentParams struct {
	Limit int `form:"limit,default=8" binding:"min=1,max=100"`
}
