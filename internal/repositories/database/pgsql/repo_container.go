package pgsql

import (
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		IdentityRepo:    newPgxIdentityRepository(dbPool),
		ProfileRepo:     newPgxProfileRepository(dbPool),
		WorkItemRepo:    newPgxWorkItemRepository(dbPool),
		InspectionRepo:  newPgxInspectionRepository(dbPool),
		ActionTokenRepo: newPgxActionTokenRepository(dbPool),
	}
}
