package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkItemStatus is the review state of a work item.
type WorkItemStatus string

const (
	WorkItemPending WorkItemStatus = "pending"
	WorkItemPassed  WorkItemStatus = "passed"
	WorkItemFailed  WorkItemStatus = "failed"
)

// InspectionResult is a QC decision.
type InspectionResult string

const (
	InspectionPass InspectionResult = "pass"
	InspectionFail InspectionResult = "fail"
)

// IsValid reports whether r is pass or fail.
func (r InspectionResult) IsValid() bool {
	return r == InspectionPass || r == InspectionFail
}

// TargetStatus is the work item status an effective inspection moves to.
func (r InspectionResult) TargetStatus() WorkItemStatus {
	if r == InspectionPass {
		return WorkItemPassed
	}
	return WorkItemFailed
}

// WorkItem is one unit of grower output awaiting or past QC review.
// Only pending items may change; the transition out of pending happens once.
// GrowerID is empty when the grower's account has been deleted.
type WorkItem struct {
	WorkItemID   string         `db:"id" json:"id"`
	GrowerID     string         `db:"grower_id" json:"growerId"`
	Title        string         `db:"title" json:"title"`
	LotCode      string         `db:"lot_code" json:"lotCode"`
	Notes        *string        `db:"notes" json:"notes"`
	Status       WorkItemStatus `db:"status" json:"status"`
	QCReviewedAt *time.Time     `db:"qc_reviewed_at" json:"qcReviewedAt"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// IsPending reports whether the item can still be edited or inspected.
func (w WorkItem) IsPending() bool {
	return w.Status == WorkItemPending
}

// Inspection records one QC decision. Every attempt is stored, effective or not.
// InspectorID is empty when the inspector's account has been deleted.
type Inspection struct {
	InspectionID string           `db:"id" json:"id"`
	WorkItemID   string           `db:"work_item_id" json:"workItemId"`
	InspectorID  string           `db:"inspector_id" json:"inspectorId"`
	Result       InspectionResult `db:"result" json:"result"`
	Notes        *string          `db:"notes" json:"notes"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

// WorkItemHistory is one work item with every inspection recorded against it, oldest first.
type WorkItemHistory struct {
	Item        WorkItem
	Inspections []Inspection
}

// ManagementKpi summarises work item throughput.
type ManagementKpi struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	PassRate int `json:"passRate"`
}

// NewManagementKpi derives the KPI block from per-status counts.
// PassRate is passed/(passed+failed) as a whole percentage, half rounded up, and 0 with no reviews.
func NewManagementKpi(counts map[WorkItemStatus]int) ManagementKpi {
	kpi := ManagementKpi{
		Pending: counts[WorkItemPending],
		Passed:  counts[WorkItemPassed],
		Failed:  counts[WorkItemFailed],
	}
	for _, n := range counts {
		kpi.Total += n
	}

	reviewed := kpi.Passed + kpi.Failed
	if reviewed > 0 {
		kpi.PassRate = int(decimal.NewFromInt(int64(kpi.Passed)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(reviewed))).
			Round(0).
			IntPart())
	}
	return kpi
}

// MutationResult reports whether a guarded write took effect.
// Writes that match no row are not errors; Reason says why nothing changed.
type MutationResult struct {
	Applied bool   `json:"applied"`
	ID      string `json:"id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonMissingFields   = "missing_required_fields"
	ReasonNotEditable     = "not_pending_or_not_owned"
	ReasonAlreadyReviewed = "already_reviewed"
	ReasonInvalidRole     = "invalid_role"
	ReasonUnknownUser     = "unknown_user"
	ReasonStoreError      = "store_error"
)

// Applied builds a successful MutationResult.
func Applied(id string) MutationResult {
	return MutationResult{Applied: true, ID: id}
}

// Rejected builds a no-op MutationResult.
func Rejected(id, reason string) MutationResult {
	return MutationResult{ID: id, Reason: reason}
}
