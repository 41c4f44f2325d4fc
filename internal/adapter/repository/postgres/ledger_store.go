package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerStore implements usecase.LedgerStore on PostgreSQL.
//
// The wallet_transactions table is append-only: rows are inserted and
// read, never updated or deleted. IDs come from a BIGSERIAL sequence,
// so ID order and append order coincide.
type LedgerStore struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

const appendQuery = `
INSERT INTO wallet_transactions (kind, amount)
VALUES ($1, $2)
RETURNING id, created_at`

// Append inserts a transaction and returns the record with the
// database-assigned ID and timestamp.
func (s *LedgerStore) Append(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateKind(kind); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{Kind: kind, Amount: amount}

	err := s.retrier.Retry(ctx, func() error {
		var createdAt pgtype.Timestamptz
		if err := s.pool.QueryRow(ctx, appendQuery, string(kind), decimalToNumeric(amount)).Scan(&tx.ID, &createdAt); err != nil {
			return err
		}

		tx.CreatedAt = createdAt.Time.UTC()
		return nil
	})
	if err != nil {
		return nil, storeUnavailable("append", err)
	}

	return tx, nil
}

const listAllQuery = `
SELECT id, kind, amount, created_at
FROM wallet_transactions
ORDER BY id`

// ListAll returns every transaction in append order.
func (s *LedgerStore) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction

	err := s.retrier.Retry(ctx, func() error {
		rows, err := s.pool.Query(ctx, listAllQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		transactions = transactions[:0]
		for rows.Next() {
			var (
				tx        domain.Transaction
				kind      string
				amount    pgtype.Numeric
				createdAt pgtype.Timestamptz
			)

			if err := rows.Scan(&tx.ID, &kind, &amount, &createdAt); err != nil {
				return err
			}

			tx.Kind = domain.TransactionKind(kind)
			tx.Amount = numericToDecimal(amount)
			tx.CreatedAt = createdAt.Time.UTC()
			transactions = append(transactions, &tx)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, storeUnavailable("list", err)
	}

	return transactions, nil
}

// storeUnavailable maps a database failure onto the domain error
// callers test for, keeping the cause in the message.
func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
