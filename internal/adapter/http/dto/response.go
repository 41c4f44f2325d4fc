package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID        int64                  `json:"id"`
	Kind      domain.TransactionKind `json:"kind"`
	Amount    decimal.Decimal        `json:"amount"`
	CreatedAt time.Time              `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        tx.ID,
		Kind:      tx.Kind,
		Amount:    tx.Amount,
		CreatedAt: tx.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, tx := range transactions {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// BalanceResponse represents the wallet balance in API responses.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// HistoryResponse represents one page of the transaction history.
// Total is the full ledger length, not the page length.
type HistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
