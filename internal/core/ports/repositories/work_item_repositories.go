package repositories

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// WorkItemReader defines read operations for work items
type WorkItemReader interface {
	// FindWorkItemByID retrieves one work item.
	FindWorkItemByID(ctx context.Context, workItemID string) (*domain.WorkItem, error)

	// ListPendingWorkItems returns the QC queue, oldest first.
	ListPendingWorkItems(ctx context.Context) ([]domain.WorkItem, error)

	// ListWorkItemsByGrower returns a grower's items, newest first.
	ListWorkItemsByGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error)

	// ListRecentWorkItems returns up to limit items, newest first.
	ListRecentWorkItems(ctx context.Context, limit int) ([]domain.WorkItem, error)

	// CountWorkItemsByStatus returns the number of items in each status.
	CountWorkItemsByStatus(ctx context.Context) (map[domain.WorkItemStatus]int, error)
}

// WorkItemWriter defines write operations for work items
type WorkItemWriter interface {
	// SaveWorkItem persists a new work item.
	SaveWorkItem(ctx context.Context, item domain.WorkItem) error

	// UpdatePendingWorkItem rewrites title, lot code and notes only where the item is
	// owned by item.GrowerID and still pending. It reports whether a row changed.
	UpdatePendingWorkItem(ctx context.Context, item domain.WorkItem) (bool, error)
}

// WorkItemRepositoryFacade combines all work item repository interfaces
type WorkItemRepositoryFacade interface {
	WorkItemReader
	WorkItemWriter
}
