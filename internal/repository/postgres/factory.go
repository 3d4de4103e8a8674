package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
)

type Repositories struct {
	Users     repo.Users
	Ledger    repo.Ledger
	Contents  repo.Contents
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     &usersRepo{pool},
		Ledger:    &ledgerRepo{pool},
		Contents:  &contentsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}

// storageErr marks a driver failure as transient and not-committed while
// keeping the cause in the chain.
func storageErr(err error) error {
	return fmt.Errorf("%w: %w", models.ErrStorage, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
