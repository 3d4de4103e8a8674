package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mahek9015/community-learning-hub/internal/mailer"
	"github.com/mahek9015/community-learning-hub/internal/metrics"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
	"github.com/mahek9015/community-learning-hub/internal/worker"
)

// UnlockDecision is the answer to "may this user unlock this item".
type UnlockDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Price   int64  `json:"price"`
	Balance int64  `json:"balance"`
}

// GateService decides premium access. It reads the catalog (through a short
// TTL cache; premium flag and price change rarely) and delegates the charge
// itself to the credit engine.
type GateService struct {
	credits  *CreditService
	contents repo.Contents
	users    repo.Users
	cache    *gocache.Cache
	mail     mailer.Sender
	wp       *worker.Pool
}

func NewGateService(cs *CreditService, c repo.Contents, u repo.Users, m mailer.Sender, wp *worker.Pool) *GateService {
	return &GateService{
		credits:  cs,
		contents: c,
		users:    u,
		cache:    gocache.New(time.Minute, 5*time.Minute),
		mail:     m,
		wp:       wp,
	}
}

func (s *GateService) content(ctx context.Context, contentID string) (models.Content, error) {
	if v, ok := s.cache.Get(contentID); ok {
		return v.(models.Content), nil
	}
	c, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return models.Content{}, err
	}
	s.cache.Set(contentID, c, gocache.DefaultExpiration)
	return c, nil
}

func (s *GateService) CanUnlock(ctx context.Context, userID, contentID string) (UnlockDecision, error) {
	c, err := s.content(ctx, contentID)
	if err != nil {
		return UnlockDecision{}, err
	}

	bal, err := s.credits.Balance(ctx, userID)
	if err != nil {
		return UnlockDecision{}, err
	}
	d := UnlockDecision{Price: c.CreditPointPrice, Balance: bal}

	if !c.IsPremium {
		d.Reason = "content is not premium"
		return d, nil
	}
	if unlocked, err := s.contents.IsUnlocked(ctx, userID, contentID); err != nil {
		return UnlockDecision{}, err
	} else if unlocked {
		d.Allowed = true
		d.Reason = "already unlocked"
		return d, nil
	}
	if bal < c.CreditPointPrice {
		d.Reason = "insufficient points"
		return d, nil
	}
	d.Allowed = true
	return d, nil
}

// Unlock spends the item's price and marks the item unlocked for the user.
// A repeat unlock returns ErrAlreadyUnlocked without charging again; the
// unlocked check here is advisory, the ledger's one-premium-spend-per-item
// rule is what keeps two racing unlocks from both charging. On
// ErrInsufficientBalance nothing has been written.
func (s *GateService) Unlock(ctx context.Context, userID, contentID string) (models.CreditTransaction, error) {
	c, err := s.content(ctx, contentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			metrics.UnlocksDenied.WithLabelValues("not_found").Inc()
		}
		return models.CreditTransaction{}, err
	}
	if !c.IsPremium {
		metrics.UnlocksDenied.WithLabelValues("not_premium").Inc()
		return models.CreditTransaction{}, models.ErrContentNotPremium
	}

	unlocked, err := s.contents.IsUnlocked(ctx, userID, contentID)
	if err != nil {
		return models.CreditTransaction{}, err
	}
	if unlocked {
		return models.CreditTransaction{}, models.ErrAlreadyUnlocked
	}

	t, err := s.credits.Spend(ctx, userID, contentID, c.CreditPointPrice)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			metrics.UnlocksDenied.WithLabelValues("insufficient_balance").Inc()
		}
		return models.CreditTransaction{}, err
	}

	// Unlock state lives outside the ledger. If this write fails the charge
	// stands and the ledger stays consistent; MarkUnlocked is idempotent.
	if err := s.contents.MarkUnlocked(ctx, userID, contentID); err != nil {
		slog.Error("mark unlocked", "user", userID, "content", contentID, "err", err)
	}

	if u, err := s.users.GetByID(ctx, userID); err == nil {
		s.wp.Submit(func() {
			if err := s.mail.Send(u.Email, "Premium content unlocked",
				mailer.UnlockReceipt(u.Username, c.Title, c.CreditPointPrice)); err != nil {
				slog.Warn("unlock receipt mail", "err", err)
			}
		})
	}
	return t, nil
}
