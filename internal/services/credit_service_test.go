package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahek9015/community-learning-hub/internal/models"
	"github.com/mahek9015/community-learning-hub/internal/repository/memory"
)

type fixture struct {
	repos   memory.Repositories
	credits *CreditService
	user    models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	u, err := repos.Users.Create(context.Background(), "alice", "alice@example.com", "hash", "user")
	require.NoError(t, err)
	return &fixture{
		repos:   repos,
		credits: NewCreditService(repos.Ledger, repos.Contents, repos.Users),
		user:    u,
	}
}

func (f *fixture) addContent(t *testing.T, premium bool, price int64) models.Content {
	t.Helper()
	c, err := f.repos.Contents.Create(context.Background(), models.Content{
		Title:            "How compilers work",
		Source:           models.SourceReddit,
		SourceURL:        "https://example.com/" + uuid.NewString(),
		Author:           "someone",
		Category:         "education",
		IsPremium:        premium,
		CreditPointPrice: price,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) fund(t *testing.T, amount int64) {
	t.Helper()
	_, err := f.repos.Ledger.AppendEarn(context.Background(), models.CreditTransaction{
		UserID:  f.user.ID,
		Amount:  amount,
		Purpose: models.PurposeOther,
	})
	require.NoError(t, err)
}

func TestEarnForViewFreshPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addContent(t, false, 0)

	tx, err := f.credits.EarnForView(ctx, f.user.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, RewardView, tx.Amount)
	assert.Equal(t, models.TxnEarn, tx.Type)
	assert.Equal(t, models.PurposeContentView, tx.Purpose)

	bal, err := f.credits.Balance(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, RewardView, bal)

	p, err := f.credits.History(ctx, f.user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, models.TxnEarn, p.Items[0].Type)
	assert.Equal(t, models.PurposeContentView, p.Items[0].Purpose)
	assert.Equal(t, int64(2), p.Items[0].Amount)
}

func TestEarnForViewTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addContent(t, false, 0)

	_, err := f.credits.EarnForView(ctx, f.user.ID, c.ID)
	require.NoError(t, err)

	_, err = f.credits.EarnForView(ctx, f.user.ID, c.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyEarned)

	bal, _ := f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, RewardView, bal)
}

func TestEarnForViewUnknownContent(t *testing.T) {
	f := newFixture(t)
	_, err := f.credits.EarnForView(context.Background(), f.user.ID, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSpendAgainstBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addContent(t, true, 8)
	f.fund(t, 10)

	tx, err := f.credits.Spend(ctx, f.user.ID, c.ID, c.CreditPointPrice)
	require.NoError(t, err)
	assert.Equal(t, int64(8), tx.Amount)
	assert.Equal(t, models.TxnSpend, tx.Type)

	bal, _ := f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, int64(2), bal)

	// same item again: 2 < 8
	_, err = f.credits.Spend(ctx, f.user.ID, c.ID, c.CreditPointPrice)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)
	bal, _ = f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, int64(2), bal)
}

func TestSpendNonPremium(t *testing.T) {
	f := newFixture(t)
	c := f.addContent(t, false, 0)
	f.fund(t, 10)

	_, err := f.credits.Spend(context.Background(), f.user.ID, c.ID, 5)
	assert.ErrorIs(t, err, models.ErrContentNotPremium)

	bal, _ := f.credits.Balance(context.Background(), f.user.ID)
	assert.Equal(t, int64(10), bal)
}

func TestSpendInsufficientNoSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addContent(t, true, 50)
	f.fund(t, 10)

	_, err := f.credits.Spend(ctx, f.user.ID, c.ID, c.CreditPointPrice)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	bal, _ := f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, int64(10), bal)
	p, _ := f.credits.History(ctx, f.user.ID, 1, 10)
	assert.Equal(t, int64(1), p.TotalItems) // only the funding earn
}

func TestConcurrentSpendsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addContent(t, true, 8)
	f.fund(t, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.credits.Spend(ctx, f.user.ID, c.ID, c.CreditPointPrice)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, models.ErrInsufficientBalance)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	bal, _ := f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, int64(2), bal)
}

func TestBalanceUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.credits.Balance(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHistoryUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.credits.History(context.Background(), "ghost", 1, 10)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHistoryPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		f.fund(t, 1)
	}

	p, err := f.credits.History(ctx, f.user.ID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalItems)
	assert.Equal(t, 2, p.CurrentPage)

	// out-of-range defaults
	p, err = f.credits.History(ctx, f.user.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Len(t, p.Items, 10)
}
