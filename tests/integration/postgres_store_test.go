package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func TestPostgresLedgerStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	store := postgres.NewLedgerStore(testDB.Pool)

	t.Run("append assigns increasing ids and timestamps", func(t *testing.T) {
		testDB.TruncateLedger(ctx)

		first, err := store.Append(ctx, domain.KindCredit, decimal.RequireFromString("10.50"))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		second, err := store.Append(ctx, domain.KindDebit, decimal.RequireFromString("0.01"))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		if second.ID <= first.ID {
			t.Errorf("expected increasing IDs, got %d then %d", first.ID, second.ID)
		}

		if first.CreatedAt.IsZero() || second.CreatedAt.IsZero() {
			t.Errorf("expected store-assigned timestamps")
		}
	})

	t.Run("list returns records in append order with exact amounts", func(t *testing.T) {
		testDB.TruncateLedger(ctx)

		amounts := []string{"100", "0.00000001", "42.42"}
		for _, a := range amounts {
			if _, err := store.Append(ctx, domain.KindCredit, decimal.RequireFromString(a)); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}

		transactions, err := store.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}

		if len(transactions) != len(amounts) {
			t.Fatalf("expected %d transactions, got %d", len(amounts), len(transactions))
		}

		for i, a := range amounts {
			if !transactions[i].Amount.Equal(decimal.RequireFromString(a)) {
				t.Errorf("transaction %d: expected amount %s, got %s", i, a, transactions[i].Amount)
			}
		}
	})

	t.Run("rejects malformed candidates before touching the database", func(t *testing.T) {
		testDB.TruncateLedger(ctx)

		if _, err := store.Append(ctx, "TRANSFER", decimal.NewFromInt(10)); !errors.Is(err, domain.ErrInvalidKind) {
			t.Errorf("expected ErrInvalidKind, got %v", err)
		}

		if _, err := store.Append(ctx, domain.KindCredit, decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}

		transactions, err := store.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}

		if len(transactions) != 0 {
			t.Errorf("expected empty ledger after rejected appends, got %d records", len(transactions))
		}
	})
}

func TestPostgresWalletConcurrentDebits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateLedger(ctx)

	uc := usecase.NewWalletUseCase(postgres.NewLedgerStore(testDB.Pool), nil, nil, nil)

	if _, err := uc.Credit(ctx, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	numDebits := 20
	debitAmount := decimal.NewFromInt(10)

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
	)

	wg.Add(numDebits)

	for range numDebits {
		go func() {
			defer wg.Done()

			_, err := uc.Debit(ctx, debitAmount)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
			default:
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 10 {
		t.Errorf("expected 10 successful debits, got %d", successCount.Load())
	}

	balance, err := uc.GetBalance(ctx)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if !balance.Equal(decimal.Zero) {
		t.Errorf("expected final balance 0, got %s", balance)
	}

	transactions, err := uc.GetHistory(ctx)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}

	if !balance.Equal(domain.Balance(transactions)) {
		t.Errorf("balance %s does not match signed sum of history %s", balance, domain.Balance(transactions))
	}
}
