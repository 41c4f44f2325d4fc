package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

func TestTwoConcurrentDebitsOneWins(t *testing.T) {
	uc, _ := newWallet()
	ctx := context.Background()

	if _, err := uc.Credit(ctx, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejectCount  atomic.Int32
	)

	wg.Add(2)

	for range 2 {
		go func() {
			defer wg.Done()

			_, err := uc.Debit(ctx, decimal.NewFromInt(100))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 || rejectCount.Load() != 1 {
		t.Fatalf("expected 1 success and 1 rejection, got %d and %d", successCount.Load(), rejectCount.Load())
	}

	requireBalance(t, uc, "0")
	requireHistoryLen(t, uc, 2)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	uc, _ := newWallet()
	ctx := context.Background()

	// Balance covers exactly 10 of the 50 attempted debits.
	if _, err := uc.Credit(ctx, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	numDebits := 50
	debitAmount := decimal.NewFromInt(10)

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejectCount  atomic.Int32
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
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 10 {
		t.Errorf("expected 10 successful debits, got %d", successCount.Load())
	}

	if rejectCount.Load() != int32(numDebits)-10 {
		t.Errorf("expected %d rejections, got %d", numDebits-10, rejectCount.Load())
	}

	requireBalance(t, uc, "0")

	// History holds the credit plus one record per accepted debit.
	requireHistoryLen(t, uc, 11)
}

func TestConcurrentMixedTrafficKeepsLedgerConsistent(t *testing.T) {
	uc, _ := newWallet()
	ctx := context.Background()

	numWorkers := 40

	var wg sync.WaitGroup

	wg.Add(numWorkers * 2)

	for range numWorkers {
		go func() {
			defer wg.Done()

			if _, err := uc.Credit(ctx, decimal.NewFromInt(5)); err != nil {
				t.Errorf("unexpected credit error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()

			_, err := uc.Debit(ctx, decimal.NewFromInt(5))
			if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}

	wg.Wait()

	history, err := uc.GetHistory(ctx)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}

	balance, err := uc.GetBalance(ctx)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if !balance.Equal(domain.Balance(history)) {
		t.Fatalf("balance %s does not match signed sum of history %s", balance, domain.Balance(history))
	}

	if balance.IsNegative() {
		t.Fatalf("balance went negative: %s", balance)
	}

	// Replaying the log in order must never pass through a negative
	// running balance either.
	running := decimal.Zero
	for _, tx := range history {
		running = running.Add(tx.SignedAmount())
		if running.IsNegative() {
			t.Fatalf("running balance negative after transaction %d: %s", tx.ID, running)
		}
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	uc, _ := newWallet()
	ctx := context.Background()

	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range 100 {
			if _, err := uc.Credit(ctx, decimal.NewFromInt(1)); err != nil {
				t.Errorf("unexpected credit error: %v", err)
			}
		}
		close(done)
	}()

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
				}

				balance, err := uc.GetBalance(ctx)
				if err != nil {
					t.Errorf("GetBalance failed: %v", err)
					return
				}

				if balance.IsNegative() || balance.GreaterThan(decimal.NewFromInt(100)) {
					t.Errorf("observed impossible balance %s", balance)
					return
				}
			}
		}()
	}

	wg.Wait()

	requireBalance(t, uc, "100")
	requireHistoryLen(t, uc, 100)
}
