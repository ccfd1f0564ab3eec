package pgsql

import (
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		BatchRepo:       newPgxBatchRepository(dbPool),
		RevaluationRepo: newPgxRevaluationRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
