package services

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/dto"
)

// WorkItemReaderSvc defines read operations for work items
type WorkItemReaderSvc interface {
	// ListQueue returns pending items, oldest first.
	ListQueue(ctx context.Context) ([]domain.WorkItem, error)
	// ListForGrower returns one grower's items, newest first.
	ListForGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error)
	// ListRecent returns up to limit items, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.WorkItem, error)
	// ComputeKpis returns throughput counts and the pass rate.
	ComputeKpis(ctx context.Context) (domain.ManagementKpi, error)
	// GetHistory returns one item and its inspections. Growers only see their own items.
	GetHistory(ctx context.Context, actor domain.Principal, workItemID string) (domain.WorkItemHistory, error)
}

// WorkItemWriterSvc defines the work item lifecycle transitions
type WorkItemWriterSvc interface {
	// CreateWorkItem adds a pending item for the calling grower.
	CreateWorkItem(ctx context.Context, actor domain.Principal, input dto.WorkItemInput) (domain.MutationResult, error)
	// EditWorkItem rewrites a pending item owned by the calling grower.
	EditWorkItem(ctx context.Context, actor domain.Principal, workItemID string, input dto.WorkItemInput) (domain.MutationResult, error)
	// InspectWorkItem records a QC decision and applies it if the item is still pending.
	InspectWorkItem(ctx context.Context, actor domain.Principal, req dto.InspectRequest) (domain.MutationResult, error)
}

// WorkItemSvcFacade combines all work item service interfaces
type WorkItemSvcFacade interface {
	WorkItemReaderSvc
	WorkItemWriterSvc
}

// WorkItemMetrics observes lifecycle events.
type WorkItemMetrics interface {
	WorkItemCreated()
	InspectionRecorded(result domain.InspectionResult, applied bool)
}
