package pgsql

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	workItemID = "5f0c7a9e-3c55-4d57-9a3c-0c3a2a1f6b10"
	growerID   = "6f1c2d3e-4a5b-4c6d-8e7f-901a2b3c4d5e"
	userID     = "7a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

type RepositoryTestSuite struct {
	suite.Suite
	pool pgxmock.PgxPoolIface
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.pool = pool
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.pool.ExpectationsWereMet())
	s.pool.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func matchSQL(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func (s *RepositoryTestSuite) pendingEdit() domain.WorkItem {
	notes := "bin 4"
	return domain.WorkItem{WorkItemID: workItemID, GrowerID: growerID, Title: "Fuji", LotCode: "LOT-2", Notes: &notes}
}

func (s *RepositoryTestSuite) TestUpdatePendingWorkItem_GuardedByOwnerAndStatus() {
	repo := newPgxWorkItemRepository(s.pool)
	item := s.pendingEdit()

	for _, tc := range []struct {
		name    string
		rows    int64
		changed bool
	}{
		{"matched", 1, true},
		{"not pending or not owned", 0, false},
	} {
		s.Run(tc.name, func() {
			s.pool.ExpectExec(matchSQL("WHERE id = $4 AND grower_id = $5 AND status = 'pending'")).
				WithArgs(item.Title, item.LotCode, item.Notes, item.WorkItemID, item.GrowerID).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.rows))

			changed, err := repo.UpdatePendingWorkItem(s.ctx, item)

			s.Require().NoError(err)
			s.Equal(tc.changed, changed)
		})
	}
}

func (s *RepositoryTestSuite) TestUpdatePendingWorkItem_StoreError() {
	repo := newPgxWorkItemRepository(s.pool)
	s.pool.ExpectExec(matchSQL("UPDATE work_items")).
		WillReturnError(errors.New("connection reset"))

	changed, err := repo.UpdatePendingWorkItem(s.ctx, s.pendingEdit())

	s.False(changed)
	s.Equal(500, apperrors.StatusCode(err))
}

func (s *RepositoryTestSuite) inspection() domain.Inspection {
	return domain.Inspection{
		InspectionID: "8b3c4d5e-6f70-4a81-9b2c-3d4e5f6a7b8c",
		WorkItemID:   workItemID,
		InspectorID:  userID,
		Result:       domain.InspectionPass,
		CreatedAt:    time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *RepositoryTestSuite) expectInsert(in domain.Inspection) *pgxmock.ExpectedExec {
	return s.pool.ExpectExec(matchSQL("INSERT INTO inspections")).
		WithArgs(in.InspectionID, in.WorkItemID, in.InspectorID, in.Result, in.Notes, in.CreatedAt)
}

func (s *RepositoryTestSuite) TestRecordInspection_InsertThenCompareAndSet() {
	repo := newPgxInspectionRepository(s.pool)
	in := s.inspection()

	for _, tc := range []struct {
		name    string
		rows    int64
		applied bool
	}{
		{"first review wins", 1, true},
		{"already reviewed", 0, false},
	} {
		s.Run(tc.name, func() {
			s.pool.ExpectBegin()
			s.expectInsert(in).WillReturnResult(pgxmock.NewResult("INSERT", 1))
			s.pool.ExpectExec(matchSQL("WHERE id = $3 AND status = 'pending'")).
				WithArgs(domain.WorkItemPassed, in.CreatedAt, in.WorkItemID).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.rows))
			s.pool.ExpectCommit()

			applied, err := repo.RecordInspection(s.ctx, in)

			s.Require().NoError(err)
			s.Equal(tc.applied, applied)
		})
	}
}

func (s *RepositoryTestSuite) TestRecordInspection_UnknownItemRollsBack() {
	repo := newPgxInspectionRepository(s.pool)
	in := s.inspection()
	s.pool.ExpectBegin()
	s.expectInsert(in).WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	s.pool.ExpectRollback()

	applied, err := repo.RecordInspection(s.ctx, in)

	s.False(applied)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("Work item not found", apperrors.UserMessage(err))
}

func (s *RepositoryTestSuite) TestRecordInspection_UpdateErrorRollsBack() {
	repo := newPgxInspectionRepository(s.pool)
	in := s.inspection()
	s.pool.ExpectBegin()
	s.expectInsert(in).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.pool.ExpectExec(matchSQL("UPDATE work_items")).WillReturnError(errors.New("deadlock detected"))
	s.pool.ExpectRollback()

	applied, err := repo.RecordInspection(s.ctx, in)

	s.False(applied)
	s.Equal(500, apperrors.StatusCode(err))
}

func (s *RepositoryTestSuite) TestRotateRefreshToken_MatchesPresentedHash() {
	repo := newPgxIdentityRepository(s.pool)
	expires := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		name    string
		rows    int64
		rotated bool
	}{
		{"current token", 1, true},
		{"token already rotated", 0, false},
	} {
		s.Run(tc.name, func() {
			s.pool.ExpectExec(matchSQL("WHERE identity_id = $3 AND refresh_token_hash = $4")).
				WithArgs("new-hash", expires, userID, "old-hash").
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.rows))

			rotated, err := repo.RotateRefreshToken(s.ctx, userID, "old-hash", "new-hash", expires)

			s.Require().NoError(err)
			s.Equal(tc.rotated, rotated)
		})
	}
}

func (s *RepositoryTestSuite) TestDeleteIdentity() {
	repo := newPgxIdentityRepository(s.pool)
	deleteSQL := matchSQL("DELETE FROM identities WHERE identity_id = $1")

	s.Run("deleted", func() {
		s.pool.ExpectExec(deleteSQL).WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		s.NoError(repo.DeleteIdentity(s.ctx, userID))
	})
	s.Run("unknown user", func() {
		s.pool.ExpectExec(deleteSQL).WithArgs(userID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		s.ErrorIs(repo.DeleteIdentity(s.ctx, userID), apperrors.ErrNotFound)
	})
	s.Run("still referenced", func() {
		s.pool.ExpectExec(deleteSQL).WithArgs(userID).WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

		err := repo.DeleteIdentity(s.ctx, userID)

		s.ErrorIs(err, apperrors.ErrDuplicate)
		s.Equal(409, apperrors.StatusCode(err))
		s.Equal(ErrUserStillReferenced, apperrors.UserMessage(err))
	})
}

func (s *RepositoryTestSuite) TestSaveWorkItem_UnknownGrower() {
	repo := newPgxWorkItemRepository(s.pool)
	s.pool.ExpectExec(matchSQL("INSERT INTO work_items")).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := repo.SaveWorkItem(s.ctx, s.pendingEdit())

	s.ErrorIs(err, apperrors.ErrValidation)
}

// Deleting a user must keep their work items and inspections.
func TestInitMigration_UserReferencesSurviveDelete(t *testing.T) {
	raw, err := os.ReadFile("../../../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	schema := string(raw)

	for _, column := range []string{"grower_id", "inspector_id"} {
		assert.Regexp(t, column+`\s+UUID\s+REFERENCES profiles \(id\) ON DELETE SET NULL`, schema)
		assert.NotContains(t, schema, column+" UUID NOT NULL")
	}
}
