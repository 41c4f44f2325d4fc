package dto

import (
	"github.com/shopspring/decimal"
)

// CreditRequest represents a request to add funds to the wallet.
// Amount accepts both JSON strings and numbers; either way it is
// parsed exactly, never through float64.
type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// DebitRequest represents a request to withdraw funds from the wallet.
type DebitRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
