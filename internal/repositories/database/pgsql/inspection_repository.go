package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxInspectionRepository struct {
	BaseRepository
}

func newPgxInspectionRepository(pool DB) portsrepo.InspectionRepositoryFacade {
	return &PgxInspectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InspectionRepositoryFacade = (*PgxInspectionRepository)(nil)

func (r *PgxInspectionRepository) ListInspectionsByWorkItem(ctx context.Context, workItemID string) ([]domain.Inspection, error) {
	query := `
		SELECT id, work_item_id, COALESCE(inspector_id::text, '') AS inspector_id, result, notes, created_at
		FROM inspections
		WHERE work_item_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, workItemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inspections", err)
	}
	defer rows.Close()

	inspections, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Inspection])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Inspection{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect inspection rows", err)
	}
	return inspections, nil
}

// RecordInspection inserts the inspection and applies it with a status compare-and-set.
// Concurrent inspections serialise on the work item row; whichever commits first
// flips the status and later ones match zero rows.
func (r *PgxInspectionRepository) RecordInspection(ctx context.Context, inspection domain.Inspection) (bool, error) {
	insert := `
		INSERT INTO inspections (id, work_item_id, inspector_id, result, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	update := `
		UPDATE work_items
		SET status = $1, qc_reviewed_at = $2
		WHERE id = $3 AND status = 'pending';
	`

	var applied bool
	err := r.RunInTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insert,
			inspection.InspectionID,
			inspection.WorkItemID,
			inspection.InspectorID,
			inspection.Result,
			inspection.Notes,
			inspection.CreatedAt,
		)
		if err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return apperrors.NewNotFoundError("Work item not found")
			}
			return apperrors.NewAppError(500, "failed to save inspection", err)
		}

		tag, err := tx.Exec(ctx, update,
			inspection.Result.TargetStatus(),
			inspection.CreatedAt,
			inspection.WorkItemID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply inspection", err)
		}
		applied = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
