package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Store is an in-memory ledger store. The full transaction log lives in
// a slice guarded by a mutex, so it is safe for concurrent use. Nothing
// survives a restart; it backs tests and single-process deployments.
type Store struct {
	mu     sync.Mutex
	nextID int64
	log    []domain.Transaction
	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Append stores a new transaction and returns the record with its
// assigned ID and timestamp.
func (s *Store) Append(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateKind(kind); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrStoreUnavailable
	}

	s.nextID++
	tx := domain.Transaction{
		ID:        s.nextID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	s.log = append(s.log, tx)

	out := tx
	return &out, nil
}

// ListAll returns a snapshot of the log in append order. Mutating the
// result does not affect the store.
func (s *Store) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrStoreUnavailable
	}

	out := make([]*domain.Transaction, len(s.log))
	for i := range s.log {
		tx := s.log[i]
		out[i] = &tx
	}

	return out, nil
}

// Close marks the store unavailable. Subsequent operations fail with
// domain.ErrStoreUnavailable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}
