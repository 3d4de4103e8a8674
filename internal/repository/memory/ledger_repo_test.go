package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahek9015/community-learning-hub/internal/models"
)

func earnTx(userID, contentID string, amount int64, purpose models.Purpose) models.CreditTransaction {
	t := models.CreditTransaction{UserID: userID, Amount: amount, Purpose: purpose}
	if contentID != "" {
		t.ContentID = &contentID
	}
	return t
}

func TestBalanceEqualsLedgerSum(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
	require.NoError(t, err)
	_, err = r.AppendEarn(ctx, earnTx("u1", "c2", 5, models.PurposeContentSave))
	require.NoError(t, err)
	_, err = r.AppendSpend(ctx, earnTx("u1", "c3", 3, models.PurposePremiumContent))
	require.NoError(t, err)

	txs, err := r.ListByUser(ctx, "u1", 100, 0)
	require.NoError(t, err)

	var sum int64
	for _, tx := range txs {
		if tx.Type == models.TxnEarn {
			sum += tx.Amount
		} else {
			sum -= tx.Amount
		}
	}
	bal, err := r.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, sum, bal)
	assert.Equal(t, int64(4), bal)
}

func TestDuplicateEarnRejected(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
	require.NoError(t, err)

	_, err = r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
	assert.ErrorIs(t, err, models.ErrDuplicateEarn)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(2), bal)

	// a different purpose for the same content is a separate earn
	_, err = r.AppendEarn(ctx, earnTx("u1", "c1", 5, models.PurposeContentSave))
	assert.NoError(t, err)
}

func TestSpendInsufficientLeavesLedgerUntouched(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
	require.NoError(t, err)

	_, err = r.AppendSpend(ctx, earnTx("u1", "c2", 10, models.PurposePremiumContent))
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(2), bal)
	n, _ := r.CountByUser(ctx, "u1")
	assert.Equal(t, int64(1), n)
}

func TestListNewestFirst(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.AppendEarn(ctx, earnTx("u1", "", 1, models.PurposeOther))
		require.NoError(t, err)
	}
	first, err := r.ListByUser(ctx, "u1", 1, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	all, err := r.ListByUser(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first[0].ID, all[0].ID)
	assert.False(t, all[0].CreatedAt.Before(all[2].CreatedAt))
}

func TestConcurrentSpendsOnlyOneSucceeds(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "", 10, models.PurposeOther))
	require.NoError(t, err)

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.AppendSpend(ctx, earnTx("u1", "c1", 8, models.PurposePremiumContent))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, models.ErrInsufficientBalance)
		insufficient++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(2), bal)
}

func TestDuplicatePremiumSpendRejected(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "", 20, models.PurposeOther))
	require.NoError(t, err)

	_, err = r.AppendSpend(ctx, earnTx("u1", "c1", 8, models.PurposePremiumContent))
	require.NoError(t, err)

	_, err = r.AppendSpend(ctx, earnTx("u1", "c1", 8, models.PurposePremiumContent))
	assert.ErrorIs(t, err, models.ErrAlreadyUnlocked)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(12), bal)
	n, _ := r.CountByUser(ctx, "u1")
	assert.Equal(t, int64(2), n)
}

func TestConcurrentPremiumSpendsChargeOnce(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	// enough balance for every spend; only the uniqueness rule can reject
	_, err := r.AppendEarn(ctx, earnTx("u1", "", 100, models.PurposeOther))
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.AppendSpend(ctx, earnTx("u1", "c1", 8, models.PurposePremiumContent))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, models.ErrAlreadyUnlocked)
		}
	}
	assert.Equal(t, 1, ok)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(92), bal)
}

func TestConcurrentEarnsOnlyOneSucceeds(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, models.ErrDuplicateEarn)
		}
	}
	assert.Equal(t, 1, ok)

	bal, _ := r.Balance(ctx, "u1")
	assert.Equal(t, int64(2), bal)
}

func TestCrossUserIndependence(t *testing.T) {
	r := newLedgerRepo()
	ctx := context.Background()

	_, err := r.AppendEarn(ctx, earnTx("u1", "c1", 2, models.PurposeContentView))
	require.NoError(t, err)

	// same content, different user: no conflict
	_, err = r.AppendEarn(ctx, earnTx("u2", "c1", 2, models.PurposeContentView))
	require.NoError(t, err)

	b1, _ := r.Balance(ctx, "u1")
	b2, _ := r.Balance(ctx, "u2")
	assert.Equal(t, int64(2), b1)
	assert.Equal(t, int64(2), b2)
}
