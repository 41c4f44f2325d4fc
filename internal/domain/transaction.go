package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the direction of a ledger transaction.
type TransactionKind string

const (
	KindCredit TransactionKind = "CREDIT"
	KindDebit  TransactionKind = "DEBIT"
)

// Valid reports whether the kind is one of the known directions.
func (k TransactionKind) Valid() bool {
	return k == KindCredit || k == KindDebit
}

// Transaction represents a single immutable entry in the wallet ledger.
// Amount is always strictly positive; Kind determines whether it raises
// or lowers the balance. Records are never updated once written.
type Transaction struct {
	ID        int64
	Kind      TransactionKind
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// SignedAmount returns the amount with the sign implied by the kind:
// positive for credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Balance folds a sequence of transactions into the resulting balance.
func Balance(transactions []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.SignedAmount())
	}
	return total
}
