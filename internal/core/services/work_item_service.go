package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/google/uuid"
)

// DefaultRecentLimit bounds ListRecent when the caller passes no limit.
const DefaultRecentLimit = 8

type workItemService struct {
	BaseService
	workItemRepo   portsrepo.WorkItemRepositoryFacade
	inspectionRepo portsrepo.InspectionRepositoryFacade
	metrics        portssvc.WorkItemMetrics
	now            func() time.Time
}

// WorkItemServiceOption is a functional option for configuring the work item service
type WorkItemServiceOption func(*workItemService)

// WithWorkItemMetrics records lifecycle events on m.
func WithWorkItemMetrics(m portssvc.WorkItemMetrics) WorkItemServiceOption {
	return func(s *workItemService) {
		s.metrics = m
	}
}

// WithWorkItemClock overrides the time source.
func WithWorkItemClock(now func() time.Time) WorkItemServiceOption {
	return func(s *workItemService) {
		s.now = now
	}
}

// NewWorkItemService creates a new work item service with the provided options
func NewWorkItemService(workItemRepo portsrepo.WorkItemRepositoryFacade, inspectionRepo portsrepo.InspectionRepositoryFacade, options ...WorkItemServiceOption) portssvc.WorkItemSvcFacade {
	svc := &workItemService{
		workItemRepo:   workItemRepo,
		inspectionRepo: inspectionRepo,
		metrics:        noopWorkItemMetrics{},
		now:            time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.WorkItemSvcFacade = (*workItemService)(nil)

type noopWorkItemMetrics struct{}

func (noopWorkItemMetrics) WorkItemCreated()                                 {}
func (noopWorkItemMetrics) InspectionRecorded(domain.InspectionResult, bool) {}

// cleanInput trims the form fields and reports whether the required ones are present.
func cleanInput(input dto.WorkItemInput) (title, lotCode string, notes *string, ok bool) {
	title = strings.TrimSpace(input.Title)
	lotCode = strings.TrimSpace(input.LotCode)
	if n := strings.TrimSpace(input.Notes); n != "" {
		notes = &n
	}
	return title, lotCode, notes, title != "" && lotCode != ""
}

func (s *workItemService) CreateWorkItem(ctx context.Context, actor domain.Principal, input dto.WorkItemInput) (domain.MutationResult, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleGrowers); err != nil {
		return domain.MutationResult{}, err
	}

	title, lotCode, notes, ok := cleanInput(input)
	if !ok {
		s.LogDebug(ctx, "Ignoring work item without title or lot code", slog.String("user_id", actor.UserID))
		return domain.Rejected("", domain.ReasonMissingFields), nil
	}

	item := domain.WorkItem{
		WorkItemID: uuid.NewString(),
		GrowerID:   actor.UserID,
		Title:      title,
		LotCode:    lotCode,
		Notes:      notes,
		Status:     domain.WorkItemPending,
		CreatedAt:  s.now(),
	}
	if err := s.workItemRepo.SaveWorkItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save work item", slog.String("user_id", actor.UserID))
		return domain.MutationResult{}, err
	}

	s.metrics.WorkItemCreated()
	s.LogInfo(ctx, "Work item created", slog.String("work_item_id", item.WorkItemID), slog.String("lot_code", lotCode))
	return domain.Applied(item.WorkItemID), nil
}

func (s *workItemService) EditWorkItem(ctx context.Context, actor domain.Principal, workItemID string, input dto.WorkItemInput) (domain.MutationResult, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleGrowers); err != nil {
		return domain.MutationResult{}, err
	}

	title, lotCode, notes, ok := cleanInput(input)
	if !ok || workItemID == "" {
		return domain.Rejected(workItemID, domain.ReasonMissingFields), nil
	}
	if !isUUID(workItemID) {
		s.LogDebug(ctx, "Edit for malformed work item id", slog.String("work_item_id", workItemID))
		return domain.Rejected(workItemID, domain.ReasonNotEditable), nil
	}

	changed, err := s.workItemRepo.UpdatePendingWorkItem(ctx, domain.WorkItem{
		WorkItemID: workItemID,
		GrowerID:   actor.UserID,
		Title:      title,
		LotCode:    lotCode,
		Notes:      notes,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update work item", slog.String("work_item_id", workItemID))
		return domain.MutationResult{}, err
	}
	if !changed {
		s.LogDebug(ctx, "Edit matched no pending item owned by caller", slog.String("work_item_id", workItemID))
		return domain.Rejected(workItemID, domain.ReasonNotEditable), nil
	}

	s.LogInfo(ctx, "Work item updated", slog.String("work_item_id", workItemID))
	return domain.Applied(workItemID), nil
}

func (s *workItemService) InspectWorkItem(ctx context.Context, actor domain.Principal, req dto.InspectRequest) (domain.MutationResult, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RolePackingEmployee, domain.RoleAdmin); err != nil {
		return domain.MutationResult{}, err
	}
	if !isUUID(req.WorkItemID) || !req.Result.IsValid() {
		return domain.MutationResult{}, apperrors.NewValidationFailedError("Invalid inspection.")
	}

	var notes *string
	if n := strings.TrimSpace(req.Notes); n != "" {
		notes = &n
	}
	inspection := domain.Inspection{
		InspectionID: uuid.NewString(),
		WorkItemID:   req.WorkItemID,
		InspectorID:  actor.UserID,
		Result:       req.Result,
		Notes:        notes,
		CreatedAt:    s.now(),
	}

	applied, err := s.inspectionRepo.RecordInspection(ctx, inspection)
	if err != nil {
		s.LogError(ctx, err, "Failed to record inspection", slog.String("work_item_id", req.WorkItemID))
		return domain.MutationResult{}, err
	}
	s.metrics.InspectionRecorded(req.Result, applied)

	if !applied {
		s.LogInfo(ctx, "Inspection recorded on an already reviewed item",
			slog.String("work_item_id", req.WorkItemID),
			slog.String("result", string(req.Result)))
		return domain.Rejected(req.WorkItemID, domain.ReasonAlreadyReviewed), nil
	}

	s.LogInfo(ctx, "Work item reviewed",
		slog.String("work_item_id", req.WorkItemID),
		slog.String("result", string(req.Result)))
	return domain.Applied(req.WorkItemID), nil
}

func (s *workItemService) ListQueue(ctx context.Context) ([]domain.WorkItem, error) {
	items, err := s.workItemRepo.ListPendingWorkItems(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending work items")
		return nil, err
	}
	return items, nil
}

func (s *workItemService) ListForGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error) {
	items, err := s.workItemRepo.ListWorkItemsByGrower(ctx, growerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list grower work items", slog.String("grower_id", growerID))
		return nil, err
	}
	return items, nil
}

func (s *workItemService) ListRecent(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	items, err := s.workItemRepo.ListRecentWorkItems(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent work items")
		return nil, err
	}
	return items, nil
}

func (s *workItemService) ComputeKpis(ctx context.Context) (domain.ManagementKpi, error) {
	counts, err := s.workItemRepo.CountWorkItemsByStatus(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count work items")
		return domain.ManagementKpi{}, err
	}
	return domain.NewManagementKpi(counts), nil
}

// workItemNotFound is returned for missing items and for items the caller may not see.
const workItemNotFound = "Work item not found"

func (s *workItemService) GetHistory(ctx context.Context, actor domain.Principal, workItemID string) (domain.WorkItemHistory, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleGrowers, domain.RolePackingEmployee, domain.RoleManagement, domain.RoleAdmin); err != nil {
		return domain.WorkItemHistory{}, err
	}
	if !isUUID(workItemID) {
		return domain.WorkItemHistory{}, apperrors.NewNotFoundError(workItemNotFound)
	}

	item, err := s.workItemRepo.FindWorkItemByID(ctx, workItemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.WorkItemHistory{}, apperrors.NewNotFoundError(workItemNotFound)
		}
		s.LogError(ctx, err, "Failed to load work item", slog.String("work_item_id", workItemID))
		return domain.WorkItemHistory{}, err
	}
	if actor.Role == domain.RoleGrowers && item.GrowerID != actor.UserID {
		s.LogDebug(ctx, "Grower asked for another grower's item",
			slog.String("work_item_id", workItemID),
			slog.String("user_id", actor.UserID))
		return domain.WorkItemHistory{}, apperrors.NewNotFoundError(workItemNotFound)
	}

	inspections, err := s.inspectionRepo.ListInspectionsByWorkItem(ctx, workItemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inspections", slog.String("work_item_id", workItemID))
		return domain.WorkItemHistory{}, err
	}
	return domain.WorkItemHistory{Item: *item, Inspections: inspections}, nil
}
