package repositories

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// InspectionReader defines read operations for inspections
type InspectionReader interface {
	// ListInspectionsByWorkItem returns every inspection recorded for an item, oldest first.
	ListInspectionsByWorkItem(ctx context.Context, workItemID string) ([]domain.Inspection, error)
}

// InspectionWriter defines write operations for inspections
type InspectionWriter interface {
	// RecordInspection stores the inspection and then moves the work item out of
	// pending if, and only if, it is still pending. The inspection row is kept
	// either way; the returned bool reports whether the status changed.
	RecordInspection(ctx context.Context, inspection domain.Inspection) (bool, error)
}

// InspectionRepositoryFacade combines all inspection repository interfaces
type InspectionRepositoryFacade interface {
	InspectionReader
	InspectionWriter
}
