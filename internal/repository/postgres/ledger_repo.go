package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahek9015/community-learning-hub/internal/models"
)

type ledgerRepo struct{ pool *pgxpool.Pool }

// withTx runs fn inside one serializable pgx transaction. The ledger insert
// and the balance projection update are never committed separately.
func (r *ledgerRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return storageErr(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *ledgerRepo) AppendEarn(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Type = models.TxnEarn

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO credit_transactions(id, user_id, amount, type, purpose, content_id, description)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING created_at`,
			t.ID, t.UserID, t.Amount, t.Type, t.Purpose, t.ContentID, t.Description,
		).Scan(&t.CreatedAt)
		if err != nil {
			// uq_credit_earn_once: one earn per (user, content, purpose)
			if isUniqueViolation(err) {
				return models.ErrDuplicateEarn
			}
			return storageErr(err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO balances(user_id, amount, last_updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE
			   SET amount = balances.amount + EXCLUDED.amount,
			       last_updated_at = now()`,
			t.UserID, t.Amount,
		)
		if err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return models.CreditTransaction{}, err
	}
	return t, nil
}

func (r *ledgerRepo) AppendSpend(ctx context.Context, t models.CreditTransaction) (models.CreditTransaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Type = models.TxnSpend

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		// Conditional decrement: the balance check and the write are one
		// statement, so no concurrent spend can slip between them. A user
		// with no balances row has balance zero and matches no row.
		var remaining int64
		err := tx.QueryRow(ctx, `
			UPDATE balances
			   SET amount = amount - $2,
			       last_updated_at = now()
			 WHERE user_id = $1 AND amount >= $2
			 RETURNING amount`,
			t.UserID, t.Amount,
		).Scan(&remaining)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrInsufficientBalance
		}
		if err != nil {
			return storageErr(err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO credit_transactions(id, user_id, amount, type, purpose, content_id, description)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING created_at`,
			t.ID, t.UserID, t.Amount, t.Type, t.Purpose, t.ContentID, t.Description,
		).Scan(&t.CreatedAt)
		if err != nil {
			// uq_premium_spend_once: a second premium spend for the same
			// (user, content) rolls the whole transaction back, so the
			// decrement above never commits.
			if isUniqueViolation(err) {
				return models.ErrAlreadyUnlocked
			}
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return models.CreditTransaction{}, err
	}
	return t, nil
}

func (r *ledgerRepo) Balance(ctx context.Context, userID string) (int64, error) {
	var amount int64
	err := r.pool.QueryRow(ctx,
		`SELECT amount FROM balances WHERE user_id = $1`, userID,
	).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr(err)
	}
	return amount, nil
}

func (r *ledgerRepo) ExistsEarn(ctx context.Context, userID, contentID string, purpose models.Purpose) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM credit_transactions
			 WHERE user_id = $1 AND content_id = $2 AND purpose = $3 AND type = 'earn'
		)`, userID, contentID, purpose,
	).Scan(&exists)
	if err != nil {
		return false, storageErr(err)
	}
	return exists, nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.CreditTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, type, purpose, content_id, description, created_at
		  FROM credit_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var out []models.CreditTransaction
	for rows.Next() {
		var t models.CreditTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Purpose, &t.ContentID, &t.Description, &t.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (r *ledgerRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM credit_transactions WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}
