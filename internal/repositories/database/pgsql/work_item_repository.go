package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxWorkItemRepository struct {
	BaseRepository
}

// newPgxWorkItemRepository creates a new repository for work item data.
func newPgxWorkItemRepository(pool DB) portsrepo.WorkItemRepositoryFacade {
	return &PgxWorkItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkItemRepositoryFacade = (*PgxWorkItemRepository)(nil)

const workItemSelectQuery = `
SELECT id, COALESCE(grower_id::text, '') AS grower_id, title, lot_code, notes, status, qc_reviewed_at, created_at
FROM work_items
`

func (r *PgxWorkItemRepository) getWorkItems(ctx context.Context, filterQuery string, args ...any) ([]domain.WorkItem, error) {
	rows, err := r.Pool.Query(ctx, workItemSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query work items", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WorkItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WorkItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect work item rows", err)
	}
	return items, nil
}

func (r *PgxWorkItemRepository) FindWorkItemByID(ctx context.Context, workItemID string) (*domain.WorkItem, error) {
	items, err := r.getWorkItems(ctx, `WHERE id = $1`, workItemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

func (r *PgxWorkItemRepository) ListPendingWorkItems(ctx context.Context) ([]domain.WorkItem, error) {
	return r.getWorkItems(ctx, `WHERE status = $1 ORDER BY created_at ASC, id ASC`, domain.WorkItemPending)
}

func (r *PgxWorkItemRepository) ListWorkItemsByGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error) {
	return r.getWorkItems(ctx, `WHERE grower_id = $1 ORDER BY created_at DESC`, growerID)
}

func (r *PgxWorkItemRepository) ListRecentWorkItems(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	if limit <= 0 {
		limit = 8
	}
	return r.getWorkItems(ctx, `ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *PgxWorkItemRepository) CountWorkItemsByStatus(ctx context.Context) (map[domain.WorkItemStatus]int, error) {
	rows, err := r.Pool.Query(ctx, `SELECT status, COUNT(*) FROM work_items GROUP BY status;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count work items", err)
	}
	defer rows.Close()

	counts := make(map[domain.WorkItemStatus]int)
	for rows.Next() {
		var status domain.WorkItemStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan work item count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating work item counts", err)
	}
	return counts, nil
}

func (r *PgxWorkItemRepository) SaveWorkItem(ctx context.Context, item domain.WorkItem) error {
	query := `
		INSERT INTO work_items (id, grower_id, title, lot_code, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.WorkItemID,
		item.GrowerID,
		item.Title,
		item.LotCode,
		item.Notes,
		item.Status,
		item.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.NewValidationFailedError("grower profile does not exist")
		}
		return apperrors.NewAppError(500, "failed to save work item", err)
	}
	return nil
}

func (r *PgxWorkItemRepository) UpdatePendingWorkItem(ctx context.Context, item domain.WorkItem) (bool, error) {
	query := `
		UPDATE work_items
		SET title = $1, lot_code = $2, notes = $3
		WHERE id = $4 AND grower_id = $5 AND status = 'pending';
	`
	tag, err := r.Pool.Exec(ctx, query,
		item.Title,
		item.LotCode,
		item.Notes,
		item.WorkItemID,
		item.GrowerID,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update work item", err)
	}
	return tag.RowsAffected() == 1, nil
}
