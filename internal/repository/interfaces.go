package repository

import (
	"context"

	"github.com/mahek9015/community-learning-hub/internal/models"
)

type Users interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	MarkVerified(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// Ledger is the append-only credit transaction store plus the cached balance
// projection derived from it. AppendEarn and AppendSpend commit the ledger
// row and the balance change as one atomic unit per user: two concurrent
// appends for the same user serialize, and the second re-evaluates its
// precondition against the committed effect of the first.
type Ledger interface {
	// AppendEarn inserts an earn transaction and increments the balance.
	// Returns models.ErrDuplicateEarn when an earn for the same
	// (user, content, purpose) already exists and the purpose is
	// one-per-content (content_view, content_save).
	AppendEarn(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error)

	// AppendSpend inserts a spend transaction and decrements the balance.
	// Returns models.ErrInsufficientBalance when the committed balance is
	// below the amount, and models.ErrAlreadyUnlocked when a premium_content
	// spend for the same (user, content) already exists; in both cases
	// ledger and balance are untouched.
	AppendSpend(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error)

	Balance(ctx context.Context, userID string) (int64, error)
	ExistsEarn(ctx context.Context, userID, contentID string, purpose models.Purpose) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.CreditTransaction, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type Contents interface {
	Create(ctx context.Context, c models.Content) (models.Content, error)
	GetByID(ctx context.Context, id string) (models.Content, error)
	ExistsBySourceURL(ctx context.Context, url string) (bool, error)
	List(ctx context.Context, filter models.ContentFilter, limit, offset int) ([]models.Content, error)
	Count(ctx context.Context, filter models.ContentFilter) (int64, error)
	Delete(ctx context.Context, id string) error

	// Save adds the content to the user's saved set. Returns false when it
	// was already there.
	Save(ctx context.Context, userID, contentID string) (bool, error)
	SavedByUser(ctx context.Context, userID string) ([]models.Content, error)

	Report(ctx context.Context, contentID, userID, reason string) error
	Reported(ctx context.Context, limit, offset int) ([]models.Content, error)
	CountReported(ctx context.Context) (int64, error)
	ClearReports(ctx context.Context, contentID string) error

	MarkUnlocked(ctx context.Context, userID, contentID string) error
	IsUnlocked(ctx context.Context, userID, contentID string) (bool, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
