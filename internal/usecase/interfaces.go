package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerStore persists the append-only transaction log.
//
// Append assigns the record identifier and timestamp and makes the
// record durable before returning. ListAll returns every stored
// transaction in append order as a snapshot that later appends do not
// mutate.
type LedgerStore interface {
	Append(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error)
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
}

// EventPublisher hands accepted-transaction events to interested
// consumers. Delivery is best effort and must never block the accept
// path.
type EventPublisher interface {
	Publish(event *domain.TransactionEvent)
}

// IDGenerator generates unique event identifiers.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore caches responses by idempotency key.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
