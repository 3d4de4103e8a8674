// Package memory holds mutex-guarded in-process implementations of the
// repository interfaces. They back the STORAGE=memory dev mode and the test
// suite; the postgres package is the durable counterpart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
)

type Repositories struct {
	Users     repo.Users
	Ledger    repo.Ledger
	Contents  repo.Contents
	AuditLogs repo.AuditLogs
}

func NewRepositories() Repositories {
	return Repositories{
		Users:     newUsersRepo(),
		Ledger:    newLedgerRepo(),
		Contents:  newContentsRepo(),
		AuditLogs: &auditLogsRepo{},
	}
}

type auditLogsRepo struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	r.logs = append(r.logs, l)
	return nil
}
