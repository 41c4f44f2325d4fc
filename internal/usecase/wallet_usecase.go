package usecase

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase implements wallet operations on top of an append-only
// ledger store.
//
// Every mutation takes the exclusive lock, so the balance check and the
// append happen as a single step and a debit can never overdraw the
// wallet, no matter how many requests race. Reads share the read lock
// and run concurrently with each other.
type WalletUseCase struct {
	store   LedgerStore
	idGen   IDGenerator
	events  EventPublisher
	metrics *metrics.Metrics

	mu      sync.RWMutex
	balance decimal.Decimal
	synced  bool
}

// NewWalletUseCase creates a new WalletUseCase. events and metrics may
// be nil, which disables event publishing and instrumentation.
func NewWalletUseCase(store LedgerStore, idGen IDGenerator, events EventPublisher, m *metrics.Metrics) *WalletUseCase {
	return &WalletUseCase{
		store:   store,
		idGen:   idGen,
		events:  events,
		metrics: m,
	}
}

// GetBalance returns the current wallet balance.
//
// The balance is a pure function of the stored transactions. It is
// cached after the first read and kept in step with every accepted
// transaction, so the common path never touches the store.
func (uc *WalletUseCase) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	uc.mu.RLock()
	if uc.synced {
		balance := uc.balance
		uc.mu.RUnlock()
		return balance, nil
	}
	uc.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.syncBalanceLocked(ctx); err != nil {
		return decimal.Zero, err
	}

	return uc.balance, nil
}

// Credit records a deposit into the wallet and returns the stored
// transaction.
func (uc *WalletUseCase) Credit(ctx context.Context, amount decimal.Decimal) (*domain.Transaction, error) {
	return uc.append(ctx, domain.KindCredit, amount)
}

// Debit records a withdrawal from the wallet and returns the stored
// transaction. A debit exceeding the current balance is rejected with
// domain.ErrInsufficientFunds and leaves the ledger untouched.
func (uc *WalletUseCase) Debit(ctx context.Context, amount decimal.Decimal) (*domain.Transaction, error) {
	return uc.append(ctx, domain.KindDebit, amount)
}

// GetHistory returns every transaction in acceptance order.
func (uc *WalletUseCase) GetHistory(ctx context.Context) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.store.ListAll(ctx)
}

func (uc *WalletUseCase) append(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		uc.countRejected(kind, "invalid_amount")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.syncBalanceLocked(ctx); err != nil {
		return nil, err
	}

	if kind == domain.KindDebit && uc.balance.LessThan(amount) {
		uc.countRejected(kind, "insufficient_funds")
		return nil, domain.ErrInsufficientFunds
	}

	tx, err := uc.store.Append(ctx, kind, amount)
	if err != nil {
		// The record may or may not have been persisted. Drop the
		// cached balance so the next operation re-reads the ledger.
		uc.synced = false
		return nil, err
	}

	uc.balance = uc.balance.Add(tx.SignedAmount())
	uc.observeAccepted(tx)
	uc.publishEvent(tx, uc.balance)

	return tx, nil
}

// syncBalanceLocked re-derives the balance from the ledger when the
// cached value is stale. Callers must hold the write lock.
func (uc *WalletUseCase) syncBalanceLocked(ctx context.Context) error {
	if uc.synced {
		return nil
	}

	transactions, err := uc.store.ListAll(ctx)
	if err != nil {
		return err
	}

	uc.balance = domain.Balance(transactions)
	uc.synced = true
	uc.observeBalance()

	return nil
}

func (uc *WalletUseCase) publishEvent(tx *domain.Transaction, balance decimal.Decimal) {
	if uc.events == nil || uc.idGen == nil {
		return
	}

	uc.events.Publish(domain.NewTransactionEvent(uc.idGen.Generate(), tx, balance.String()))
}

func (uc *WalletUseCase) observeAccepted(tx *domain.Transaction) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransactionsAccepted.WithLabelValues(string(tx.Kind)).Inc()
	uc.metrics.TransactionAmount.WithLabelValues(string(tx.Kind)).Observe(tx.Amount.InexactFloat64())
	uc.observeBalance()
}

func (uc *WalletUseCase) observeBalance() {
	if uc.metrics == nil {
		return
	}

	uc.metrics.WalletBalance.Set(uc.balance.InexactFloat64())
}

func (uc *WalletUseCase) countRejected(kind domain.TransactionKind, reason string) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransactionsRejected.WithLabelValues(string(kind), reason).Inc()
}
