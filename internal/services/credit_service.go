package services

import (
	"context"
	"errors"

	"github.com/mahek9015/community-learning-hub/internal/metrics"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
)

// Reward policy. Amounts are fixed here and never caller-supplied, so a
// client cannot inflate its own rewards.
const (
	RewardView int64 = 2
	RewardSave int64 = 5
)

const defaultPageSize = 10

// CreditService enforces earning and spending rules. Every mutation goes
// through the ledger's atomic append, which commits the transaction row and
// the cached balance as one unit.
type CreditService struct {
	ledger   repo.Ledger
	contents repo.Contents
	users    repo.Users
}

func NewCreditService(l repo.Ledger, c repo.Contents, u repo.Users) *CreditService {
	return &CreditService{ledger: l, contents: c, users: u}
}

// EarnForView grants the fixed viewing reward once per (user, content).
// A repeat call fails with ErrAlreadyEarned; a call racing a concurrent
// first earn loses against the store constraint with ErrDuplicateEarn.
func (s *CreditService) EarnForView(ctx context.Context, userID, contentID string) (models.CreditTransaction, error) {
	if _, err := s.contents.GetByID(ctx, contentID); err != nil {
		return models.CreditTransaction{}, err
	}

	earned, err := s.ledger.ExistsEarn(ctx, userID, contentID, models.PurposeContentView)
	if err != nil {
		return models.CreditTransaction{}, err
	}
	if earned {
		return models.CreditTransaction{}, models.ErrAlreadyEarned
	}

	t, err := s.ledger.AppendEarn(ctx, models.CreditTransaction{
		UserID:    userID,
		Amount:    RewardView,
		Purpose:   models.PurposeContentView,
		ContentID: &contentID,
	})
	if err != nil {
		return models.CreditTransaction{}, err
	}
	metrics.CreditsEarnedTotal.WithLabelValues(string(models.PurposeContentView)).Add(float64(t.Amount))
	return t, nil
}

// EarnForSave grants the fixed save reward. The caller owns the saved-set
// check; the ledger uniqueness on (user, content, content_save) is the
// backstop against a double grant.
func (s *CreditService) EarnForSave(ctx context.Context, userID, contentID string) (models.CreditTransaction, error) {
	t, err := s.ledger.AppendEarn(ctx, models.CreditTransaction{
		UserID:    userID,
		Amount:    RewardSave,
		Purpose:   models.PurposeContentSave,
		ContentID: &contentID,
	})
	if err != nil {
		return models.CreditTransaction{}, err
	}
	metrics.CreditsEarnedTotal.WithLabelValues(string(models.PurposeContentSave)).Add(float64(t.Amount))
	return t, nil
}

// Spend charges amount against the user's balance for a premium item. The
// balance check and the decrement are one atomic unit inside the ledger; on
// ErrInsufficientBalance nothing is written.
func (s *CreditService) Spend(ctx context.Context, userID, contentID string, amount int64) (models.CreditTransaction, error) {
	if amount <= 0 {
		return models.CreditTransaction{}, errors.New("amount must be > 0")
	}

	c, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return models.CreditTransaction{}, err
	}
	if !c.IsPremium {
		return models.CreditTransaction{}, models.ErrContentNotPremium
	}

	t, err := s.ledger.AppendSpend(ctx, models.CreditTransaction{
		UserID:    userID,
		Amount:    amount,
		Purpose:   models.PurposePremiumContent,
		ContentID: &contentID,
	})
	if err != nil {
		return models.CreditTransaction{}, err
	}
	metrics.CreditsSpentTotal.Add(float64(t.Amount))
	return t, nil
}

func (s *CreditService) Balance(ctx context.Context, userID string) (int64, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, models.ErrNotFound
	}
	return s.ledger.Balance(ctx, userID)
}

func (s *CreditService) History(ctx context.Context, userID string, page, pageSize int) (models.Page[models.CreditTransaction], error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return models.Page[models.CreditTransaction]{}, err
	}
	if !exists {
		return models.Page[models.CreditTransaction]{}, models.ErrNotFound
	}

	page, pageSize = models.ClampPage(page, pageSize, defaultPageSize)

	txs, err := s.ledger.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.Page[models.CreditTransaction]{}, err
	}
	total, err := s.ledger.CountByUser(ctx, userID)
	if err != nil {
		return models.Page[models.CreditTransaction]{}, err
	}
	return models.NewPage(txs, page, pageSize, total), nil
}
