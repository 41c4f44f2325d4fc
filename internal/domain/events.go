package domain

import "time"

// Event types
const (
	EventTypeWalletCredited = "wallet.credited"
	EventTypeWalletDebited  = "wallet.debited"
)

// TransactionEvent is published after a transaction has been accepted
// into the ledger. Balance is the wallet balance immediately after the
// transaction was applied.
type TransactionEvent struct {
	EventID       string `json:"event_id"`
	EventType     string `json:"event_type"`
	TransactionID int64  `json:"transaction_id"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
	CreatedAt     string `json:"created_at"`
}

// NewTransactionEvent builds the event payload for an accepted transaction.
func NewTransactionEvent(eventID string, tx *Transaction, balance string) *TransactionEvent {
	eventType := EventTypeWalletCredited
	if tx.Kind == KindDebit {
		eventType = EventTypeWalletDebited
	}

	return &TransactionEvent{
		EventID:       eventID,
		EventType:     eventType,
		TransactionID: tx.ID,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount.String(),
		Balance:       balance,
		CreatedAt:     tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
