package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mahek9015/community-learning-hub/internal/models"
)

type earnKey struct {
	contentID string
	purpose   models.Purpose
}

// userLedger holds one user's transactions, cached balance and earn keys.
// Its mutex is the per-user serialization point: check, append and balance
// update happen under one critical section, so a concurrent second request
// observes the committed effect of the first before evaluating its own
// precondition.
type userLedger struct {
	mu      sync.Mutex
	txs     []models.CreditTransaction
	balance int64
	earned  map[earnKey]struct{}
	spent   map[string]struct{} // content ids with a committed premium spend
}

type ledgerRepo struct {
	mu    sync.Mutex
	users map[string]*userLedger
}

func newLedgerRepo() *ledgerRepo {
	return &ledgerRepo{users: map[string]*userLedger{}}
}

func (r *ledgerRepo) forUser(userID string) *userLedger {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		u = &userLedger{earned: map[earnKey]struct{}{}, spent: map[string]struct{}{}}
		r.users[userID] = u
	}
	return u
}

// oncePerContent reports whether the purpose carries the one-earn-per-content
// uniqueness rule.
func oncePerContent(p models.Purpose) bool {
	return p == models.PurposeContentView || p == models.PurposeContentSave
}

func (r *ledgerRepo) AppendEarn(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error) {
	u := r.forUser(t.UserID)
	u.mu.Lock()
	defer u.mu.Unlock()

	var key earnKey
	unique := t.ContentID != nil && oncePerContent(t.Purpose)
	if unique {
		key = earnKey{contentID: *t.ContentID, purpose: t.Purpose}
		if _, dup := u.earned[key]; dup {
			return models.CreditTransaction{}, models.ErrDuplicateEarn
		}
	}

	t.ID = uuid.NewString()
	t.Type = models.TxnEarn
	t.CreatedAt = time.Now()
	u.txs = append(u.txs, t)
	u.balance += t.Amount
	if unique {
		u.earned[key] = struct{}{}
	}
	return t, nil
}

func (r *ledgerRepo) AppendSpend(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error) {
	u := r.forUser(t.UserID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.balance < t.Amount {
		return models.CreditTransaction{}, models.ErrInsufficientBalance
	}

	unique := t.ContentID != nil && t.Purpose == models.PurposePremiumContent
	if unique {
		if _, dup := u.spent[*t.ContentID]; dup {
			return models.CreditTransaction{}, models.ErrAlreadyUnlocked
		}
	}

	t.ID = uuid.NewString()
	t.Type = models.TxnSpend
	t.CreatedAt = time.Now()
	u.txs = append(u.txs, t)
	u.balance -= t.Amount
	if unique {
		u.spent[*t.ContentID] = struct{}{}
	}
	return t, nil
}

func (r *ledgerRepo) Balance(ctx context.Context, userID string) (int64, error) {
	u := r.forUser(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.balance, nil
}

func (r *ledgerRepo) ExistsEarn(ctx context.Context, userID, contentID string, purpose models.Purpose) (bool, error) {
	u := r.forUser(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.earned[earnKey{contentID: contentID, purpose: purpose}]
	return ok, nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.CreditTransaction, error) {
	u := r.forUser(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	// txs is append-ordered; walk backwards for newest-first.
	var out []models.CreditTransaction
	for i := len(u.txs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, u.txs[i])
	}
	return out, nil
}

func (r *ledgerRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	u := r.forUser(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return int64(len(u.txs)), nil
}
